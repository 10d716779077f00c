package models

import (
	"errors"
	"fmt"
)

type ElementKind int

const (
	StopElement ElementKind = iota
	SegmentElement
)

func (k ElementKind) String() string {
	if k == SegmentElement {
		return "segment"
	}
	return "stop"
}

func (k ElementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ElementKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stop":
		*k = StopElement
	case "segment":
		*k = SegmentElement
	default:
		return fmt.Errorf("unknown element kind %q", string(text))
	}
	return nil
}

var ErrEmptyStopID = errors.New("element stop id cannot be empty")

// ElementID identifies a network element: a stop, or the line segment a route
// type travels between two consecutive stops. It is comparable and used
// directly as a map key.
type ElementID struct {
	Kind       ElementKind `json:"kind"`
	StopID     string      `json:"stopId,omitempty"`
	FromStopID string      `json:"fromStopId,omitempty"`
	ToStopID   string      `json:"toStopId,omitempty"`
	Mode       RouteType   `json:"mode,omitempty"`
}

func NewStopElement(stopID string) (ElementID, error) {
	if stopID == "" {
		return ElementID{}, ErrEmptyStopID
	}
	return ElementID{Kind: StopElement, StopID: stopID}, nil
}

func NewSegmentElement(fromStopID, toStopID string, mode RouteType) (ElementID, error) {
	if fromStopID == "" || toStopID == "" {
		return ElementID{}, ErrEmptyStopID
	}
	return ElementID{Kind: SegmentElement, FromStopID: fromStopID, ToStopID: toStopID, Mode: mode}, nil
}

// Validate checks an element decoded from outside input.
func (e ElementID) Validate() error {
	switch e.Kind {
	case StopElement:
		if e.StopID == "" {
			return ErrEmptyStopID
		}
		if e.FromStopID != "" || e.ToStopID != "" {
			return fmt.Errorf("stop element %s carries segment fields", e.StopID)
		}
	case SegmentElement:
		if e.FromStopID == "" || e.ToStopID == "" {
			return ErrEmptyStopID
		}
		if e.StopID != "" {
			return fmt.Errorf("segment element %s-%s carries a stop id", e.FromStopID, e.ToStopID)
		}
	default:
		return fmt.Errorf("unknown element kind %d", int(e.Kind))
	}
	return nil
}

func (e ElementID) String() string {
	if e.Kind == SegmentElement {
		return fmt.Sprintf("segment(%s->%s mode=%d)", e.FromStopID, e.ToStopID, e.Mode)
	}
	return fmt.Sprintf("stop(%s)", e.StopID)
}

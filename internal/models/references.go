package models

import "sort"

// ReferencesModel References model for related data
type ReferencesModel struct {
	Routes []RouteReference `json:"routes"`
	Trips  []TripReference  `json:"trips"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Routes: []RouteReference{},
		Trips:  []TripReference{},
	}
}

// ReferenceBuilder collects unique route and trip references.
type ReferenceBuilder struct {
	routes map[string]RouteReference
	trips  map[string]TripReference
}

func NewReferenceBuilder() *ReferenceBuilder {
	return &ReferenceBuilder{
		routes: make(map[string]RouteReference),
		trips:  make(map[string]TripReference),
	}
}

func (b *ReferenceBuilder) AddRoute(route Route) {
	b.routes[route.ID] = NewRouteReference(route)
}

func (b *ReferenceBuilder) AddTrip(trip Trip) {
	b.trips[trip.ID] = NewTripReference(trip)
}

// Build returns the references sorted by id.
func (b *ReferenceBuilder) Build() ReferencesModel {
	refs := NewEmptyReferences()
	for _, r := range b.routes {
		refs.Routes = append(refs.Routes, r)
	}
	for _, t := range b.trips {
		refs.Trips = append(refs.Trips, t)
	}
	sort.Slice(refs.Routes, func(i, j int) bool { return refs.Routes[i].ID < refs.Routes[j].ID })
	sort.Slice(refs.Trips, func(i, j int) bool { return refs.Trips[i].ID < refs.Trips[j].ID })
	return refs
}

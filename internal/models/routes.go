package models

// RouteType is the GTFS route_type enum. It doubles as the mode of a line segment.
type RouteType int

type Route struct {
	ID       string    `json:"id"`
	AgencyID string    `json:"agencyId"`
	Type     RouteType `json:"type"`
}

// RouteReference is the reference entry emitted alongside matched occurrences.
type RouteReference struct {
	ID       string    `json:"id"`
	AgencyID string    `json:"agencyId"`
	Type     RouteType `json:"type"`
}

func NewRouteReference(route Route) RouteReference {
	return RouteReference{
		ID:       route.ID,
		AgencyID: route.AgencyID,
		Type:     route.Type,
	}
}

// UnknownRouteType marks segments whose trip references a missing route.
const UnknownRouteType RouteType = -1

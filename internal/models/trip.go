package models

type Trip struct {
	ID        string `json:"id"`
	RouteID   string `json:"routeId"`
	ServiceID string `json:"serviceId"`
}

// TripReference is the reference entry emitted alongside matched occurrences.
type TripReference struct {
	ID        string `json:"id"`
	RouteID   string `json:"routeId"`
	ServiceID string `json:"serviceId"`
}

func NewTripReference(trip Trip) TripReference {
	return TripReference{
		ID:        trip.ID,
		RouteID:   trip.RouteID,
		ServiceID: trip.ServiceID,
	}
}

package models

type Airport struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

type AirportSummary struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AirportDetails struct {
	Airport
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	City        string       `json:"city,omitempty"`
	Region      string       `json:"region,omitempty"`
}

// ClosestAirport is derived from the caller's location; distance data is
// absent when the service could not resolve one.
type ClosestAirport struct {
	Airport
	Distance     *float64     `json:"distance,omitempty"`
	DistanceUnit string       `json:"distanceUnit,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

type Destination struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Popular bool   `json:"popular,omitempty"`
}

type Schedule struct {
	FlightNumber  string   `json:"flightNumber"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	Duration      string   `json:"duration"`
	Frequency     []string `json:"frequency"`
	Aircraft      *string  `json:"aircraft,omitempty"`
}

type Route struct {
	Origin      AirportSummary `json:"origin"`
	Destination AirportSummary `json:"destination"`
	Distance    *float64       `json:"distance,omitempty"`
	Duration    string         `json:"duration,omitempty"`
	Frequency   *int           `json:"frequency,omitempty"`
}

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version,omitempty"`
}

package queries

import (
	"context"

	"github.com/dharmasatrya/farecalendar/internal/models"
)

// AirportSource is the part of the remote client the airport orchestrator
// reads from.
type AirportSource interface {
	ActiveAirports(ctx context.Context) ([]models.Airport, error)
	Airport(ctx context.Context, code string) (models.AirportDetails, error)
	ClosestAirport(ctx context.Context) (models.ClosestAirport, error)
	NearbyAirports(ctx context.Context) ([]models.ClosestAirport, error)
	Destinations(ctx context.Context, code string) ([]models.Destination, error)
	Schedules(ctx context.Context, code string) ([]models.Schedule, error)
	Route(ctx context.Context, from, to string) (models.Route, error)
}

// FareSource is the part of the remote client the fare orchestrator reads
// from.
type FareSource interface {
	CheapestPerDay(ctx context.Context, p models.FareSearchParams) (models.CheapestPerDay, error)
	DailyRange(ctx context.Context, p models.DailyRangeParams) ([]models.DayFare, error)
	CheapestRoundTrip(ctx context.Context, p models.RoundTripParams) ([]models.RoundTripOption, error)
}

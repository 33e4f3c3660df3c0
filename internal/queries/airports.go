package queries

import (
	"context"

	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

// Airports resolves airport data through the shared request cache.
type Airports struct {
	cache *querycache.Cache
	src   AirportSource
}

func NewAirports(cache *querycache.Cache, src AirportSource) *Airports {
	return &Airports{cache: cache, src: src}
}

func (a *Airports) Active() querycache.Snapshot {
	return a.cache.Resolve(query(AirportKeys.Active(), activeAirportsPolicy, nil,
		fetch(a.src.ActiveAirports)))
}

func (a *Airports) Details(code string) querycache.Snapshot {
	return a.cache.Resolve(query(AirportKeys.Detail(code), airportDetailPolicy, ValidateCode(code),
		fetch(func(ctx context.Context) (models.AirportDetails, error) {
			return a.src.Airport(ctx, code)
		})))
}

func (a *Airports) Closest() querycache.Snapshot {
	return a.cache.Resolve(query(AirportKeys.Closest(), locationPolicy, nil,
		fetch(a.src.ClosestAirport)))
}

func (a *Airports) Nearby() querycache.Snapshot {
	return a.cache.Resolve(query(AirportKeys.Nearby(), locationPolicy, nil,
		fetch(a.src.NearbyAirports)))
}

func (a *Airports) Destinations(code string) querycache.Snapshot {
	return a.cache.Resolve(query(AirportKeys.Destinations(code), destinationsPolicy, ValidateCode(code),
		fetch(func(ctx context.Context) ([]models.Destination, error) {
			return a.src.Destinations(ctx, code)
		})))
}

func (a *Airports) Schedules(code string) querycache.Snapshot {
	return a.cache.Resolve(query(AirportKeys.Schedules(code), schedulesPolicy, ValidateCode(code),
		fetch(func(ctx context.Context) ([]models.Schedule, error) {
			return a.src.Schedules(ctx, code)
		})))
}

func (a *Airports) Route(from, to string) querycache.Snapshot {
	return a.cache.Resolve(query(AirportKeys.Routes(from, to), routesPolicy, ValidateRoute(from, to),
		fetch(func(ctx context.Context) (models.Route, error) {
			return a.src.Route(ctx, from, to)
		})))
}

// Invalidate marks every cached airport entry stale.
func (a *Airports) Invalidate() int {
	return InvalidateAirports(a.cache)
}

func InvalidateAirports(cache *querycache.Cache) int {
	return cache.Invalidate(AirportsPrefix)
}

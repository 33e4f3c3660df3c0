package queries

import (
	"context"

	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

// Fares resolves fare data through the shared request cache. Invalid
// parameters produce a disabled snapshot instead of a request.
type Fares struct {
	cache *querycache.Cache
	src   FareSource
}

func NewFares(cache *querycache.Cache, src FareSource) *Fares {
	return &Fares{cache: cache, src: src}
}

func (f *Fares) CheapestPerDay(p models.FareSearchParams) querycache.Snapshot {
	p = p.WithDefaults()
	return f.cache.Resolve(query(FareKeys.CheapestPerDay(p), cheapestPerDayPolicy, ValidateFareSearch(p),
		fetch(func(ctx context.Context) (models.CheapestPerDay, error) {
			return f.src.CheapestPerDay(ctx, p)
		})))
}

func (f *Fares) DailyRange(p models.DailyRangeParams) querycache.Snapshot {
	p = p.WithDefaults()
	return f.cache.Resolve(query(FareKeys.DailyRange(p), dailyRangePolicy, ValidateDailyRange(p),
		fetch(func(ctx context.Context) ([]models.DayFare, error) {
			return f.src.DailyRange(ctx, p)
		})))
}

func (f *Fares) RoundTrip(p models.RoundTripParams) querycache.Snapshot {
	p = p.WithDefaults()
	return f.cache.Resolve(query(FareKeys.RoundTrip(p), roundTripPolicy, ValidateRoundTrip(p),
		fetch(func(ctx context.Context) ([]models.RoundTripOption, error) {
			return f.src.CheapestRoundTrip(ctx, p)
		})))
}

// Invalidate marks every cached fare entry stale.
func (f *Fares) Invalidate() int {
	return InvalidateFares(f.cache)
}

func InvalidateFares(cache *querycache.Cache) int {
	return cache.Invalidate(FaresPrefix)
}

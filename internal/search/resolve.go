package search

import (
	"context"
	"sync"

	"github.com/dharmasatrya/farecalendar/internal/calendar"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/queries"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
	"github.com/dharmasatrya/farecalendar/internal/timezone"
	"github.com/dharmasatrya/farecalendar/pkg/currency"
)

// outcome records how a value was served.
type outcome struct {
	hit     bool
	stale   bool
	loading bool
}

func (o outcome) merge(other outcome) outcome {
	return outcome{
		hit:     o.hit && other.hit,
		stale:   o.stale || other.stale,
		loading: o.loading || other.loading,
	}
}

// resolve serves the last known value of a revalidating entry right away
// and waits for anything else.
func resolve[T any](ctx context.Context, snap querycache.Snapshot) (T, outcome, error) {
	if snap.IsLoading && snap.HasValue() {
		if v, ok := queries.Value[T](snap); ok {
			return v, outcome{stale: true, loading: true}, nil
		}
	}

	v, err := queries.Await[T](ctx, snap)
	return v, outcome{hit: snap.Hit}, err
}

// withBounds fills in the min and max fare when the service left them out.
func withBounds(series models.FareSeries) models.FareSeries {
	if series.MinFare == nil {
		series.MinFare = calendar.BestFare(series.Fares)
	}
	if series.MaxFare == nil {
		series.MaxFare = calendar.WorstFare(series.Fares)
	}
	return series
}

func fareView(f models.DayFare, depTZ, arrTZ string) models.FareView {
	view := models.FareView{
		DayFare:       f,
		DepartureTime: timezone.ClockTime(f.DepartureDate, depTZ),
		ArrivalTime:   timezone.ClockTime(f.ArrivalDate, arrTZ),
	}
	if f.Price != nil {
		view.Formatted = currency.Format(f.Price.Value, f.Price.CurrencyCode)
	}
	return view
}

func roundTripViews(options []models.RoundTripOption, originTZ, destTZ string) []models.RoundTripView {
	views := make([]models.RoundTripView, 0, len(options))
	for _, o := range options {
		views = append(views, models.RoundTripView{
			Departure:  fareView(o.Departure, originTZ, destTZ),
			Return:     fareView(o.Return, destTZ, originTZ),
			TotalPrice: o.TotalPrice,
			Formatted:  currency.Format(o.TotalPrice.Value, o.TotalPrice.CurrencyCode),
		})
	}
	return views
}

type zones struct {
	mu    sync.Mutex
	names map[string]string
}

func newZones() *zones {
	return &zones{names: make(map[string]string)}
}

func (z *zones) set(code, name string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.names[code] = name
}

func (z *zones) get(code string) string {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.names[code]
}

// Package calendar holds the pure functions that turn fetched fare series
// into what a fare calendar shows: day lookups, alternatives for an
// unavailable day, best fares, round-trip combinations and month grids.
package calendar

import (
	"sort"

	"github.com/dharmasatrya/farecalendar/internal/models"
)

// DefaultAlternatives is the number of alternative days offered when the
// requested day cannot be booked.
const DefaultAlternatives = 3

// Index maps calendar days to their fare. The first fare of a day wins.
func Index(fares []models.DayFare) map[string]models.DayFare {
	index := make(map[string]models.DayFare, len(fares))
	for _, f := range fares {
		if _, ok := index[dayOf(f.Day)]; !ok {
			index[dayOf(f.Day)] = f
		}
	}
	return index
}

// Lookup finds the fare of day, matching on the calendar day only.
func Lookup(fares []models.DayFare, day string) (models.DayFare, bool) {
	day = dayOf(day)
	for _, f := range fares {
		if dayOf(f.Day) == day {
			return f, true
		}
	}
	return models.DayFare{}, false
}

func IsBookable(f *models.DayFare) bool {
	return f != nil && f.Bookable()
}

// SelectAlternatives returns up to limit bookable days other than
// requestedDay, cheapest first and earliest first among equal prices. It
// returns nothing when requestedDay itself is bookable.
func SelectAlternatives(fares []models.DayFare, requestedDay string, limit int) []models.DayFare {
	if limit <= 0 {
		limit = DefaultAlternatives
	}
	if f, ok := Lookup(fares, requestedDay); ok && f.Bookable() {
		return []models.DayFare{}
	}

	requested := dayOf(requestedDay)
	candidates := make([]models.DayFare, 0, len(fares))
	for _, f := range fares {
		if f.Bookable() && dayOf(f.Day) != requested {
			candidates = append(candidates, f)
		}
	}

	sortByPrice(candidates)

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// BestFare is the cheapest bookable day, the earliest one on ties. It is nil
// iff no day is bookable.
func BestFare(fares []models.DayFare) *models.DayFare {
	var best *models.DayFare
	for i := range fares {
		f := &fares[i]
		if !f.Bookable() {
			continue
		}
		if best == nil || cheaper(*f, *best) {
			best = f
		}
	}
	return copyFare(best)
}

// WorstFare is the most expensive bookable day, the earliest one on ties.
func WorstFare(fares []models.DayFare) *models.DayFare {
	var worst *models.DayFare
	for i := range fares {
		f := &fares[i]
		if !f.Bookable() {
			continue
		}
		if worst == nil || f.Price.Value > worst.Price.Value ||
			(f.Price.Value == worst.Price.Value && dayOf(f.Day) < dayOf(worst.Day)) {
			worst = f
		}
	}
	return copyFare(worst)
}

// Summarize builds a series from fares, filling in its min and max fare.
func Summarize(fares []models.DayFare) models.FareSeries {
	return models.FareSeries{
		Fares:   fares,
		MinFare: BestFare(fares),
		MaxFare: WorstFare(fares),
	}
}

// DisplayFare is the fare shown for day: the day itself when present, or
// else the series minimum when fallbackToMin is set.
func DisplayFare(series models.FareSeries, day string, fallbackToMin bool) *models.DayFare {
	if f, ok := Lookup(series.Fares, day); ok {
		return &f
	}
	if !fallbackToMin {
		return nil
	}
	if series.MinFare != nil {
		return copyFare(series.MinFare)
	}
	return BestFare(series.Fares)
}

func sortByPrice(fares []models.DayFare) {
	sort.SliceStable(fares, func(i, j int) bool {
		return cheaper(fares[i], fares[j])
	})
}

func cheaper(a, b models.DayFare) bool {
	if a.Price.Value != b.Price.Value {
		return a.Price.Value < b.Price.Value
	}
	return dayOf(a.Day) < dayOf(b.Day)
}

func copyFare(f *models.DayFare) *models.DayFare {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// dayOf drops any time part, so "2024-03-10T00:00:00" and "2024-03-10"
// compare equal.
func dayOf(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

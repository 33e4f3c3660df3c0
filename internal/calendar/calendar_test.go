package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/farecalendar/internal/calendar"
	"github.com/dharmasatrya/farecalendar/internal/models"
)

func fare(day string, price float64) models.DayFare {
	return models.DayFare{Day: day, Price: &models.Price{Value: price, CurrencyCode: "EUR"}}
}

func unavailable(day string) models.DayFare {
	return models.DayFare{Day: day, Unavailable: true}
}

func soldOut(day string, price float64) models.DayFare {
	f := fare(day, price)
	f.SoldOut = true
	return f
}

func days(fares []models.DayFare) []string {
	out := make([]string, len(fares))
	for i, f := range fares {
		out[i] = f.Day
	}
	return out
}

// Ten days around an unavailable 2024-03-10 on DUB -> BCN.
func dublinBarcelona() []models.DayFare {
	return []models.DayFare{
		fare("2024-03-06", 49.99),
		fare("2024-03-07", 29.99),
		soldOut("2024-03-08", 9.99),
		fare("2024-03-09", 39.99),
		unavailable("2024-03-10"),
		fare("2024-03-11", 19.99),
		fare("2024-03-12", 29.99),
		{Day: "2024-03-13"},
		fare("2024-03-14", 89.99),
		fare("2024-03-15", 59.99),
	}
}

func TestSelectAlternativesForUnavailableDay(t *testing.T) {
	series := dublinBarcelona()

	alternatives := calendar.SelectAlternatives(series, "2024-03-10", calendar.DefaultAlternatives)

	assert.Equal(t, []string{"2024-03-11", "2024-03-07", "2024-03-12"}, days(alternatives))
	for i := 1; i < len(alternatives); i++ {
		assert.LessOrEqual(t, alternatives[i-1].Price.Value, alternatives[i].Price.Value)
	}
}

func TestSelectAlternativesEdgeCases(t *testing.T) {
	t.Run("requested day bookable", func(t *testing.T) {
		assert.Empty(t, calendar.SelectAlternatives(dublinBarcelona(), "2024-03-11", 3))
	})

	t.Run("nothing bookable", func(t *testing.T) {
		series := []models.DayFare{unavailable("2024-03-10"), soldOut("2024-03-11", 10), {Day: "2024-03-12"}}
		alternatives := calendar.SelectAlternatives(series, "2024-03-10", 3)
		assert.NotNil(t, alternatives)
		assert.Empty(t, alternatives)
	})

	t.Run("requested day missing from series", func(t *testing.T) {
		alternatives := calendar.SelectAlternatives(dublinBarcelona(), "2024-04-01", 0)
		assert.Len(t, alternatives, calendar.DefaultAlternatives)
	})

	t.Run("limit larger than bookable days", func(t *testing.T) {
		alternatives := calendar.SelectAlternatives(dublinBarcelona(), "2024-03-10", 20)
		assert.Len(t, alternatives, 7)
	})
}

func TestLookupMatchesDayOnly(t *testing.T) {
	series := []models.DayFare{fare("2024-03-10T00:00:00", 10)}

	f, ok := calendar.Lookup(series, "2024-03-10")
	require.True(t, ok)
	assert.Equal(t, 10.0, f.Price.Value)

	_, ok = calendar.Lookup(series, "2024-03-11")
	assert.False(t, ok)

	assert.Contains(t, calendar.Index(dublinBarcelona()), "2024-03-10")
}

func TestIsBookable(t *testing.T) {
	f := fare("2024-03-10", 10)
	assert.True(t, calendar.IsBookable(&f))
	assert.False(t, calendar.IsBookable(nil))

	u := unavailable("2024-03-10")
	assert.False(t, calendar.IsBookable(&u))

	s := soldOut("2024-03-10", 10)
	assert.False(t, calendar.IsBookable(&s))
}

func TestBestAndWorstFare(t *testing.T) {
	series := dublinBarcelona()

	best := calendar.BestFare(series)
	require.NotNil(t, best)
	assert.Equal(t, "2024-03-11", best.Day)
	for _, f := range series {
		if f.Bookable() {
			assert.LessOrEqual(t, best.Price.Value, f.Price.Value)
		}
	}

	worst := calendar.WorstFare(series)
	require.NotNil(t, worst)
	assert.Equal(t, "2024-03-14", worst.Day)

	assert.Nil(t, calendar.BestFare([]models.DayFare{unavailable("2024-03-10")}))
	assert.Nil(t, calendar.BestFare(nil))
}

func TestBestFareTieBreaksOnEarliestDay(t *testing.T) {
	series := []models.DayFare{fare("2024-03-12", 20), fare("2024-03-11", 20), fare("2024-03-13", 25)}

	best := calendar.BestFare(series)
	require.NotNil(t, best)
	assert.Equal(t, "2024-03-11", best.Day)
}

func TestDisplayFareFallsBackToMinimum(t *testing.T) {
	series := calendar.Summarize(dublinBarcelona())

	shown := calendar.DisplayFare(series, "2024-03-10", true)
	require.NotNil(t, shown)
	assert.Equal(t, "2024-03-10", shown.Day)

	shown = calendar.DisplayFare(series, "2024-04-01", true)
	require.NotNil(t, shown)
	assert.Equal(t, "2024-03-11", shown.Day)

	assert.Nil(t, calendar.DisplayFare(series, "2024-04-01", false))
}

func TestCombineRoundTripSumsLegs(t *testing.T) {
	options := calendar.CombineRoundTrip(
		[]models.DayFare{fare("2024-03-10", 50)},
		[]models.DayFare{fare("2024-03-17", 70)},
	)

	require.Len(t, options, 1)
	assert.Equal(t, models.Price{Value: 120, CurrencyCode: "EUR"}, options[0].TotalPrice)
}

func TestCombineRoundTripOrdering(t *testing.T) {
	outbound := []models.DayFare{fare("2024-03-10", 30), fare("2024-03-11", 20), unavailable("2024-03-12"), fare("2024-03-14", 10)}
	inbound := []models.DayFare{fare("2024-03-11", 40), fare("2024-03-13", 30), soldOut("2024-03-15", 1)}

	options := calendar.CombineRoundTrip(outbound, inbound)

	// 03-14 departs after every return day.
	require.Len(t, options, 4)
	for i := 1; i < len(options); i++ {
		assert.LessOrEqual(t, options[i-1].TotalPrice.Value, options[i].TotalPrice.Value)
	}
	assert.Equal(t, "2024-03-11", options[0].Departure.Day)
	assert.Equal(t, "2024-03-13", options[0].Return.Day)
	assert.Equal(t, 50.0, options[0].TotalPrice.Value)

	// Same-day return is allowed.
	assert.Equal(t, "2024-03-11", options[2].Return.Day)
	assert.Equal(t, "2024-03-11", options[2].Departure.Day)
}

func TestCombineRoundTripSumIsExact(t *testing.T) {
	options := calendar.CombineRoundTrip(
		[]models.DayFare{fare("2024-03-10", 0.1)},
		[]models.DayFare{fare("2024-03-11", 0.2)},
	)
	require.Len(t, options, 1)
	assert.Equal(t, 0.3, options[0].TotalPrice.Value)
}

func TestCombineRoundTripSkipsMixedCurrencies(t *testing.T) {
	gbp := fare("2024-03-12", 40)
	gbp.Price.CurrencyCode = "GBP"

	options, skipped := calendar.CombineRoundTripReport(
		[]models.DayFare{fare("2024-03-10", 50)},
		[]models.DayFare{fare("2024-03-11", 60), gbp},
	)

	require.Len(t, options, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 110.0, options[0].TotalPrice.Value)
}

func TestExpandCalendarGrid(t *testing.T) {
	// March 2024 starts on a Friday.
	slots := calendar.ExpandCalendarGrid(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))

	require.Len(t, slots, 42)
	for i := 0; i < 5; i++ {
		assert.True(t, slots[i].Padding)
	}
	assert.False(t, slots[5].Padding)
	assert.Equal(t, 1, slots[5].Date.Day())
	assert.Equal(t, time.Friday, slots[5].Date.Weekday())
	assert.Equal(t, 31, slots[35].Date.Day())
	assert.True(t, slots[36].Padding)
}

func TestExpandCalendarGridStartingOnSunday(t *testing.T) {
	// September 2024 starts on a Sunday.
	slots := calendar.ExpandCalendarGrid(time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, slots, 35)
	assert.False(t, slots[0].Padding)
	assert.Equal(t, time.Sunday, slots[0].Date.Weekday())
}

func TestMonthsInRangeAndDefaultWindow(t *testing.T) {
	months := calendar.MonthsInRange(
		time.Date(2023, time.November, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC),
	)
	require.Len(t, months, 4)
	assert.Equal(t, time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC), months[0])
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), months[3])

	start, end := calendar.DefaultWindow(time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestCellFor(t *testing.T) {
	today := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)
	at := func(day int) calendar.Slot {
		return calendar.Slot{Date: time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)}
	}
	bookable := fare("2024-03-12", 20)
	sold := soldOut("2024-03-12", 20)

	tests := []struct {
		name       string
		slot       calendar.Slot
		fare       *models.DayFare
		state      calendar.CellState
		today      bool
		selectable bool
	}{
		{"padding", calendar.Slot{Padding: true}, nil, calendar.CellPadding, false, false},
		{"past with fare", at(9), &bookable, calendar.CellPast, false, false},
		{"today bookable", at(10), &bookable, calendar.CellBookable, true, true},
		{"future without fare", at(12), nil, calendar.CellUnavailable, false, false},
		{"future sold out", at(12), &sold, calendar.CellSoldOut, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := calendar.CellFor(tt.slot, tt.fare, today)
			assert.Equal(t, tt.state, cell.State)
			assert.Equal(t, tt.today, cell.Today)
			assert.Equal(t, tt.selectable, cell.Selectable())
		})
	}
}

package calendar

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/farecalendar/internal/models"
)

// CombineRoundTrip pairs every bookable outbound day with every bookable
// inbound day on or after it. Options are sorted by total price, then by
// departure day, so the first option is the cheapest.
func CombineRoundTrip(outbound, inbound []models.DayFare) []models.RoundTripOption {
	options, _ := CombineRoundTripReport(outbound, inbound)
	return options
}

// CombineRoundTripReport is CombineRoundTrip that also reports how many
// pairs were skipped because their legs are priced in different currencies.
func CombineRoundTripReport(outbound, inbound []models.DayFare) ([]models.RoundTripOption, int) {
	options := make([]models.RoundTripOption, 0)
	skipped := 0

	for _, dep := range outbound {
		if !dep.Bookable() {
			continue
		}
		for _, ret := range inbound {
			if !ret.Bookable() || dayOf(dep.Day) > dayOf(ret.Day) {
				continue
			}
			if dep.Price.CurrencyCode != ret.Price.CurrencyCode {
				skipped++
				continue
			}

			total := decimal.NewFromFloat(dep.Price.Value).Add(decimal.NewFromFloat(ret.Price.Value))
			options = append(options, models.RoundTripOption{
				Departure: dep,
				Return:    ret,
				TotalPrice: models.Price{
					Value:        total.Round(2).InexactFloat64(),
					CurrencyCode: dep.Price.CurrencyCode,
				},
			})
		}
	}

	SortOptions(options)
	return options, skipped
}

// SortOptions orders options by total price, then departure day, then return
// day.
func SortOptions(options []models.RoundTripOption) {
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		if a.TotalPrice.Value != b.TotalPrice.Value {
			return a.TotalPrice.Value < b.TotalPrice.Value
		}
		if dayOf(a.Departure.Day) != dayOf(b.Departure.Day) {
			return dayOf(a.Departure.Day) < dayOf(b.Departure.Day)
		}
		return dayOf(a.Return.Day) < dayOf(b.Return.Day)
	})
}

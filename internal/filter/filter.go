package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/farecalendar/internal/calendar"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/pkg/date"
)

// Apply filters and sorts round-trip options. Without a sort field options
// keep the cheapest-first order.
func Apply(options []models.RoundTripOption, filters *models.OptionFilters, sortBy, sortOrder string) []models.RoundTripOption {
	filtered := applyFilters(options, filters)

	return applySort(filtered, sortBy, sortOrder)
}

func applyFilters(options []models.RoundTripOption, filters *models.OptionFilters) []models.RoundTripOption {
	if filters == nil {
		return options
	}

	weekdays := parseWeekdays(filters.DepartureWeekdays)
	result := make([]models.RoundTripOption, 0, len(options))

	for _, o := range options {
		if matchesFilters(o, filters, weekdays) {
			result = append(result, o)
		}
	}

	return result
}

func matchesFilters(o models.RoundTripOption, filters *models.OptionFilters, weekdays map[time.Weekday]bool) bool {
	if filters.MaxTotal != nil && o.TotalPrice.Value > *filters.MaxTotal {
		return false
	}

	if filters.MinNights != nil || filters.MaxNights != nil {
		nights, ok := Nights(o)
		if !ok {
			return false
		}
		if filters.MinNights != nil && nights < *filters.MinNights {
			return false
		}
		if filters.MaxNights != nil && nights > *filters.MaxNights {
			return false
		}
	}

	if len(weekdays) > 0 {
		dep, err := date.Parse(o.Departure.Day)
		if err != nil || !weekdays[dep.Weekday()] {
			return false
		}
	}

	return true
}

// Nights is the number of nights between the departure and return days.
func Nights(o models.RoundTripOption) (int, bool) {
	dep, err := date.Parse(o.Departure.Day)
	if err != nil {
		return 0, false
	}
	ret, err := date.Parse(o.Return.Day)
	if err != nil {
		return 0, false
	}
	return int(ret.Sub(dep).Hours() / 24), true
}

func parseWeekdays(names []string) map[time.Weekday]bool {
	if len(names) == 0 {
		return nil
	}

	weekdays := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if n := strings.ToLower(name); n == full || n == full[:3] {
				weekdays[d] = true
			}
		}
	}
	return weekdays
}

func applySort(options []models.RoundTripOption, sortBy, sortOrder string) []models.RoundTripOption {
	if len(options) == 0 {
		return options
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	switch strings.ToLower(sortBy) {
	case "price":
		sort.SliceStable(options, func(i, j int) bool {
			if ascending {
				return options[i].TotalPrice.Value < options[j].TotalPrice.Value
			}
			return options[i].TotalPrice.Value > options[j].TotalPrice.Value
		})

	case "departure":
		sort.SliceStable(options, func(i, j int) bool {
			if ascending {
				return options[i].Departure.Day < options[j].Departure.Day
			}
			return options[i].Departure.Day > options[j].Departure.Day
		})

	case "return":
		sort.SliceStable(options, func(i, j int) bool {
			if ascending {
				return options[i].Return.Day < options[j].Return.Day
			}
			return options[i].Return.Day > options[j].Return.Day
		})

	case "nights":
		sort.SliceStable(options, func(i, j int) bool {
			ni, _ := Nights(options[i])
			nj, _ := Nights(options[j])
			if ascending {
				return ni < nj
			}
			return ni > nj
		})

	default:
		calendar.SortOptions(options)
	}

	return options
}

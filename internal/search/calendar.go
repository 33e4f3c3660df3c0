package search

import (
	"context"
	"strings"
	"time"

	"github.com/dharmasatrya/farecalendar/internal/calendar"
	"github.com/dharmasatrya/farecalendar/internal/fareerr"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/ranking"
	"github.com/dharmasatrya/farecalendar/pkg/currency"
	"github.com/dharmasatrya/farecalendar/pkg/date"
)

// Calendar builds month grids of daily fares for req. Days outside the
// requested range keep their grid slot but carry no fare.
func (s *Service) Calendar(ctx context.Context, req models.CalendarRequest) (*models.CalendarResponse, error) {
	start, end, err := s.window(req)
	if err != nil {
		return nil, err
	}

	p := models.DailyRangeParams{
		From:      strings.ToUpper(strings.TrimSpace(req.From)),
		To:        strings.ToUpper(strings.TrimSpace(req.To)),
		StartDate: date.Format(start),
		EndDate:   date.Format(end),
		Currency:  strings.ToUpper(strings.TrimSpace(req.Currency)),
	}.WithDefaults()

	searchCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	fares, o, err := resolve[[]models.DayFare](searchCtx, s.fares.DailyRange(p))
	if err != nil {
		return nil, err
	}

	resp := &models.CalendarResponse{
		From:      p.From,
		To:        p.To,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Currency:  p.Currency,
		Loading:   o.loading,
		Months:    BuildMonths(fares, start, end, s.now()),
	}

	series := calendar.Summarize(fares)
	if series.MinFare != nil {
		view := fareView(*series.MinFare, "", "")
		resp.MinFare = &view
	}
	if series.MaxFare != nil {
		view := fareView(*series.MaxFare, "", "")
		resp.MaxFare = &view
	}

	return resp, nil
}

func (s *Service) window(req models.CalendarRequest) (time.Time, time.Time, error) {
	if req.StartDate != "" && req.EndDate != "" {
		start, err := date.Parse(req.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fareerr.Validation("start_date %q is not a valid date", req.StartDate)
		}
		end, err := date.Parse(req.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fareerr.Validation("end_date %q is not a valid date", req.EndDate)
		}
		return start, end, nil
	}

	selected := date.Day(s.now())
	if req.SelectedDate != "" {
		t, err := date.Parse(req.SelectedDate)
		if err != nil {
			return time.Time{}, time.Time{}, fareerr.Validation("selected_date %q is not a valid date", req.SelectedDate)
		}
		selected = t
	}
	start, end := calendar.DefaultWindow(selected)
	return start, end, nil
}

// BuildMonths lays out fares as one Sunday-first grid per month of
// start..end, classifying every day against today.
func BuildMonths(fares []models.DayFare, start, end, today time.Time) []models.CalendarMonth {
	index := calendar.Index(fares)
	levels := ranking.Levels(fares)

	months := make([]models.CalendarMonth, 0)
	for _, month := range calendar.MonthsInRange(start, end) {
		slots := calendar.ExpandCalendarGrid(month)
		days := make([]models.CalendarDay, 0, len(slots))

		for _, slot := range slots {
			if slot.Padding {
				days = append(days, models.CalendarDay{State: string(calendar.CellPadding)})
				continue
			}

			day := models.CalendarDay{Date: date.Format(slot.Date)}
			if !calendar.InRange(slot.Date, start, end) {
				day.State = string(calendar.CellOutOfRange)
				days = append(days, day)
				continue
			}

			var fare *models.DayFare
			if f, ok := index[day.Date]; ok {
				fare = &f
				day.Fare = fare
				if f.Price != nil {
					day.Formatted = currency.Format(f.Price.Value, f.Price.CurrencyCode)
				}
				day.Level = string(levels[f.Day])
			}

			cell := calendar.CellFor(slot, fare, today)
			day.State = string(cell.State)
			day.Today = cell.Today
			days = append(days, day)
		}

		months = append(months, models.CalendarMonth{
			Month: month.Format("2006-01"),
			Days:  days,
		})
	}
	return months
}

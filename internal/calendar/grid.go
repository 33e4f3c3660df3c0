package calendar

import (
	"time"

	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/pkg/date"
)

// Slot is one cell of a month grid. Padding slots have a zero Date.
type Slot struct {
	Date    time.Time
	Padding bool
}

// ExpandCalendarGrid lays out the month containing monthStart in seven
// Sunday-first columns. Leading padding aligns the first day with its
// weekday; trailing padding completes the last week.
func ExpandCalendarGrid(monthStart time.Time) []Slot {
	first := date.StartOfMonth(monthStart)
	last := date.EndOfMonth(first)

	lead := int(first.Weekday())
	slots := make([]Slot, 0, 42)
	for i := 0; i < lead; i++ {
		slots = append(slots, Slot{Padding: true})
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		slots = append(slots, Slot{Date: d})
	}
	for len(slots)%7 != 0 {
		slots = append(slots, Slot{Padding: true})
	}
	return slots
}

// MonthsInRange lists the first day of every month touched by start..end.
func MonthsInRange(start, end time.Time) []time.Time {
	first, last := date.StartOfMonth(start), date.StartOfMonth(end)

	months := make([]time.Time, 0, date.MonthsBetween(first, last)+1)
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// DefaultWindow is the range a calendar opened on selected covers when no
// explicit range is given: the selected month and the one after it.
func DefaultWindow(selected time.Time) (start, end time.Time) {
	start = date.StartOfMonth(selected)
	end = date.EndOfMonth(start.AddDate(0, 1, 0))
	return start, end
}

type CellState string

const (
	CellPadding     CellState = "padding"
	CellPast        CellState = "past"
	CellOutOfRange  CellState = "out_of_range"
	CellSoldOut     CellState = "sold_out"
	CellUnavailable CellState = "unavailable"
	CellBookable    CellState = "bookable"
)

type Cell struct {
	State CellState
	Today bool
}

// Selectable reports whether the cell can be picked as a travel day.
func (c Cell) Selectable() bool {
	return c.State == CellBookable
}

// CellFor classifies the grid slot day against today and its fare. Days
// before today are past whatever their fare says; days without a fare entry
// are unavailable.
func CellFor(slot Slot, fare *models.DayFare, today time.Time) Cell {
	if slot.Padding {
		return Cell{State: CellPadding}
	}

	day, today := date.Day(slot.Date), date.Day(today)
	cell := Cell{Today: day.Equal(today)}

	switch {
	case day.Before(today):
		cell.State = CellPast
	case fare == nil || fare.Unavailable:
		cell.State = CellUnavailable
	case fare.SoldOut:
		cell.State = CellSoldOut
	case fare.Bookable():
		cell.State = CellBookable
	default:
		cell.State = CellUnavailable
	}
	return cell
}

// InRange reports whether day lies within start..end, both inclusive.
func InRange(day, start, end time.Time) bool {
	day = date.Day(day)
	return !day.Before(date.Day(start)) && !day.After(date.Day(end))
}

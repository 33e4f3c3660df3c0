package date

import (
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a calendar day, ignoring any time part ("2024-03-10T06:25:00").
// The result is midnight UTC.
func Parse(s string) (time.Time, error) {
	if i := strings.Index(s, "T"); i != -1 {
		s = s[:i]
	}

	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}

	return t, nil
}

// Day truncates t to its calendar day in t's own location, expressed as
// midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// MonthsBetween counts calendar month boundaries from start to end,
// ignoring the day of month: Jan 31 -> Feb 1 is one month.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

package queries

import (
	"strings"
	"time"

	"github.com/dharmasatrya/farecalendar/internal/fareerr"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/pkg/date"
)

// MaxRangeMonths bounds the calendar months a daily-range query may span.
const MaxRangeMonths = 6

// The predicates below decide whether a query may reach the network. A nil
// result enables the query; otherwise the returned validation error is the
// reason it stays disabled.

func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fareerr.Validation("airport code is required")
	}
	return nil
}

func ValidateRoute(from, to string) error {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return fareerr.Validation("origin and destination are required")
	}
	if strings.EqualFold(from, to) {
		return fareerr.Validation("origin and destination must differ")
	}
	return nil
}

func ValidateFareSearch(p models.FareSearchParams) error {
	if err := ValidateRoute(p.From, p.To); err != nil {
		return err
	}
	if _, err := parseDate("startDate", p.StartDate); err != nil {
		return err
	}
	return nil
}

func ValidateDailyRange(p models.DailyRangeParams) error {
	if err := ValidateRoute(p.From, p.To); err != nil {
		return err
	}
	start, err := parseDate("startDate", p.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", p.EndDate)
	if err != nil {
		return err
	}
	if start.After(end) {
		return fareerr.Validation("startDate %s is after endDate %s", p.StartDate, p.EndDate)
	}
	if months := date.MonthsBetween(start, end); months > MaxRangeMonths {
		return fareerr.Validation("date range spans %d months, at most %d allowed", months, MaxRangeMonths)
	}
	return nil
}

func ValidateRoundTrip(p models.RoundTripParams) error {
	if err := ValidateRoute(p.From, p.To); err != nil {
		return err
	}
	outbound, err := parseDate("outboundDate", p.OutboundDate)
	if err != nil {
		return err
	}
	inbound, err := parseDate("inboundDate", p.InboundDate)
	if err != nil {
		return err
	}
	if outbound.After(inbound) {
		return fareerr.Validation("outboundDate %s is after inboundDate %s", p.OutboundDate, p.InboundDate)
	}
	return nil
}

func parseDate(field, value string) (t time.Time, err error) {
	if value == "" {
		return t, fareerr.Validation("%s is required", field)
	}
	t, err = date.Parse(value)
	if err != nil {
		return t, fareerr.Validation("%s %q is not a valid date", field, value)
	}
	return t, nil
}

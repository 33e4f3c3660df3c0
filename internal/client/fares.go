package client

import (
	"context"
	"net/url"

	"github.com/dharmasatrya/farecalendar/internal/models"
)

func (c *Client) CheapestPerDay(ctx context.Context, p models.FareSearchParams) (models.CheapestPerDay, error) {
	p = p.WithDefaults()

	params := url.Values{}
	setIfNotEmpty(params, "from", p.From)
	setIfNotEmpty(params, "to", p.To)
	setIfNotEmpty(params, "startDate", p.StartDate)
	setIfNotEmpty(params, "currency", p.Currency)

	var result models.CheapestPerDay
	err := c.getJSON(ctx, request{family: FamilyFares, path: "/api/fares/cheapest-per-day", params: params}, &result)
	return result, err
}

func (c *Client) DailyRange(ctx context.Context, p models.DailyRangeParams) ([]models.DayFare, error) {
	p = p.WithDefaults()

	params := url.Values{}
	setIfNotEmpty(params, "from", p.From)
	setIfNotEmpty(params, "to", p.To)
	setIfNotEmpty(params, "startDate", p.StartDate)
	setIfNotEmpty(params, "endDate", p.EndDate)
	setIfNotEmpty(params, "currency", p.Currency)

	var fares []models.DayFare
	err := c.getJSON(ctx, request{family: FamilyFares, path: "/api/fares/daily-range", params: params}, &fares)
	return fares, err
}

func (c *Client) CheapestRoundTrip(ctx context.Context, p models.RoundTripParams) ([]models.RoundTripOption, error) {
	p = p.WithDefaults()

	params := url.Values{}
	setIfNotEmpty(params, "from", p.From)
	setIfNotEmpty(params, "to", p.To)
	setIfNotEmpty(params, "startDate", p.OutboundDate)
	setIfNotEmpty(params, "endDate", p.InboundDate)
	setIfNotEmpty(params, "currency", p.Currency)

	var options []models.RoundTripOption
	err := c.getJSON(ctx, request{family: FamilyFares, path: "/api/fares/cheapest-round-trip", params: params}, &options)
	return options, err
}

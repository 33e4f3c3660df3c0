package client

import (
	"context"
	"net/url"

	"github.com/dharmasatrya/farecalendar/internal/models"
)

func (c *Client) ActiveAirports(ctx context.Context) ([]models.Airport, error) {
	var airports []models.Airport
	err := c.getJSON(ctx, request{family: FamilyAirports, path: "/api/airports/active"}, &airports)
	return airports, err
}

func (c *Client) Airport(ctx context.Context, code string) (models.AirportDetails, error) {
	var details models.AirportDetails
	err := c.getJSON(ctx, request{family: FamilyAirports, path: "/api/airports/" + url.PathEscape(code)}, &details)
	return details, err
}

func (c *Client) ClosestAirport(ctx context.Context) (models.ClosestAirport, error) {
	var closest models.ClosestAirport
	err := c.getJSON(ctx, request{
		family:        FamilyAirports,
		path:          "/api/airports/closest",
		locationAware: true,
	}, &closest)
	return closest, err
}

func (c *Client) NearbyAirports(ctx context.Context) ([]models.ClosestAirport, error) {
	var nearby []models.ClosestAirport
	err := c.getJSON(ctx, request{
		family:        FamilyAirports,
		path:          "/api/airports/nearby",
		locationAware: true,
	}, &nearby)
	return nearby, err
}

func (c *Client) Destinations(ctx context.Context, code string) ([]models.Destination, error) {
	var destinations []models.Destination
	err := c.getJSON(ctx, request{
		family: FamilyAirports,
		path:   "/api/airports/" + url.PathEscape(code) + "/destinations",
	}, &destinations)
	return destinations, err
}

func (c *Client) Schedules(ctx context.Context, code string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := c.getJSON(ctx, request{
		family: FamilyAirports,
		path:   "/api/airports/" + url.PathEscape(code) + "/schedules",
	}, &schedules)
	return schedules, err
}

func (c *Client) Route(ctx context.Context, from, to string) (models.Route, error) {
	var route models.Route
	err := c.getJSON(ctx, request{
		family: FamilyAirports,
		path:   "/api/airports/" + url.PathEscape(from) + "/routes/" + url.PathEscape(to),
	}, &route)
	return route, err
}

func (c *Client) Health(ctx context.Context) (models.HealthStatus, error) {
	var status models.HealthStatus
	err := c.getJSON(ctx, request{family: FamilyHealth, path: "/health"}, &status)
	return status, err
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/queries"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

type AirportHandler struct {
	airports *queries.Airports
}

func NewAirportHandler(airports *queries.Airports) *AirportHandler {
	return &AirportHandler{airports: airports}
}

func (h *AirportHandler) Active(c echo.Context) error {
	return respond[[]models.Airport](c, h.airports.Active())
}

func (h *AirportHandler) Details(c echo.Context) error {
	return respond[models.AirportDetails](c, h.airports.Details(code(c, "code")))
}

func (h *AirportHandler) Closest(c echo.Context) error {
	return respond[models.ClosestAirport](c, h.airports.Closest())
}

func (h *AirportHandler) Nearby(c echo.Context) error {
	return respond[[]models.ClosestAirport](c, h.airports.Nearby())
}

func (h *AirportHandler) Destinations(c echo.Context) error {
	return respond[[]models.Destination](c, h.airports.Destinations(code(c, "code")))
}

func (h *AirportHandler) Schedules(c echo.Context) error {
	return respond[[]models.Schedule](c, h.airports.Schedules(code(c, "code")))
}

func (h *AirportHandler) Route(c echo.Context) error {
	return respond[models.Route](c, h.airports.Route(code(c, "code"), code(c, "to")))
}

func code(c echo.Context, name string) string {
	return strings.ToUpper(strings.TrimSpace(c.Param(name)))
}

func respond[T any](c echo.Context, snap querycache.Snapshot) error {
	v, err := queries.Await[T](c.Request().Context(), snap)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return errorJSON(c, err)
	}
	if snap.State == querycache.StateFresh {
		c.Response().Header().Set("X-Cache", "HIT")
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}
	return c.JSON(http.StatusOK, v)
}

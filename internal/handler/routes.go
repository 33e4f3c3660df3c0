package handler

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Airports *AirportHandler
	Fares    *FareHandler
	Cache    *CacheHandler
	Health   *HealthHandler
}

// Register mounts the API under /api/v1 and the health check at /health.
func Register(e *echo.Echo, h Handlers) {
	api := e.Group("/api/v1")

	airports := api.Group("/airports")
	airports.GET("", h.Airports.Active)
	airports.GET("/closest", h.Airports.Closest)
	airports.GET("/nearby", h.Airports.Nearby)
	airports.GET("/:code", h.Airports.Details)
	airports.GET("/:code/destinations", h.Airports.Destinations)
	airports.GET("/:code/schedules", h.Airports.Schedules)
	airports.GET("/:code/routes/:to", h.Airports.Route)

	fares := api.Group("/fares")
	fares.POST("/search", h.Fares.Search)
	fares.GET("/calendar", h.Fares.Calendar)
	fares.GET("/round-trip", h.Fares.RoundTrip)

	api.POST("/cache/invalidate", h.Cache.Invalidate)

	e.GET("/health", h.Health.Health)
}

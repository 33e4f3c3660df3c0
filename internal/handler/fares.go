package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/farecalendar/internal/cache"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/search"
)

const (
	searchNamespace    = "search"
	calendarNamespace  = "calendar"
	roundTripNamespace = "round-trip"
)

type FareHandler struct {
	service *search.Service
	cache   cache.Cache
	log     zerolog.Logger
}

func NewFareHandler(service *search.Service, c cache.Cache, log zerolog.Logger) *FareHandler {
	return &FareHandler{
		service: service,
		cache:   c,
		log:     log,
	}
}

func (h *FareHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Failed to parse request body: "+err.Error())
	}
	req = search.Normalize(req)

	key := cache.Key(searchNamespace, req)
	var cached models.SearchResponse
	if h.cache.Get(ctx, key, &cached) {
		cached.Metadata.CacheHit = true
		cached.Metadata.SearchTimeMs = 0
		return c.JSON(http.StatusOK, cached)
	}

	resp, err := h.service.Search(ctx, req)
	if err != nil {
		return errorJSON(c, err)
	}

	h.store(c, key, resp, resp.Metadata.Loading)
	return c.JSON(http.StatusOK, resp)
}

func (h *FareHandler) Calendar(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CalendarRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Failed to parse query: "+err.Error())
	}

	key := cache.Key(calendarNamespace, req)
	var cached models.CalendarResponse
	if h.cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	resp, err := h.service.Calendar(ctx, req)
	if err != nil {
		return errorJSON(c, err)
	}

	h.store(c, key, resp, resp.Loading)
	return c.JSON(http.StatusOK, resp)
}

func (h *FareHandler) RoundTrip(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RoundTripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Failed to parse query: "+err.Error())
	}

	key := cache.Key(roundTripNamespace, req)
	var cached models.RoundTripResponse
	if h.cache.Get(ctx, key, &cached) {
		cached.Metadata.CacheHit = true
		return c.JSON(http.StatusOK, cached)
	}

	resp, err := h.service.RoundTrip(ctx, req)
	if err != nil {
		return errorJSON(c, err)
	}

	h.store(c, key, resp, resp.Metadata.Loading)
	return c.JSON(http.StatusOK, resp)
}

// store keeps settled responses only; a response built from a revalidating
// entry would pin stale fares for the whole TTL.
func (h *FareHandler) store(c echo.Context, key string, resp any, loading bool) {
	if loading {
		return
	}
	if err := h.cache.Set(c.Request().Context(), key, resp); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("response cache write failed")
	}
}

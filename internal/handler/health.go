package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/farecalendar/internal/models"
)

type HealthChecker interface {
	Health(ctx context.Context) (models.HealthStatus, error)
}

type HealthHandler struct {
	upstream HealthChecker
	timeout  time.Duration
}

func NewHealthHandler(upstream HealthChecker) *HealthHandler {
	return &HealthHandler{upstream: upstream, timeout: 3 * time.Second}
}

// Health reports "ok" when the fare service answers and "degraded"
// otherwise. The server itself is up in both cases.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp := map[string]any{"status": "ok"}

	upstream, err := h.upstream.Health(ctx)
	if err != nil {
		resp["status"] = "degraded"
		resp["upstream_error"] = err.Error()
	} else {
		resp["upstream"] = upstream
	}

	return c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/farecalendar/internal/cache"
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/queries"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

type CacheHandler struct {
	queries   *querycache.Cache
	responses cache.Cache
	log       zerolog.Logger
}

func NewCacheHandler(qc *querycache.Cache, responses cache.Cache, log zerolog.Logger) *CacheHandler {
	return &CacheHandler{queries: qc, responses: responses, log: log}
}

type invalidateResponse struct {
	Prefix           []string `json:"prefix"`
	Entries          int      `json:"entries"`
	ResponsesDropped int      `json:"responses_dropped"`
}

// Invalidate marks cached entries under the given key prefix stale. An empty
// prefix covers every entry. Stored fare responses are dropped along with
// fare entries.
func (h *CacheHandler) Invalidate(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.InvalidateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Failed to parse request body: "+err.Error())
	}

	prefix := querycache.Key(req.Prefix)
	resp := invalidateResponse{
		Prefix:  prefix,
		Entries: h.queries.Invalidate(prefix),
	}
	if resp.Prefix == nil {
		resp.Prefix = []string{}
	}

	if len(prefix) == 0 || queries.FaresPrefix.HasPrefix(prefix[:1]) {
		for _, ns := range []string{searchNamespace, calendarNamespace, roundTripNamespace} {
			n, err := h.responses.DeletePrefix(ctx, ns)
			if err != nil {
				h.log.Warn().Err(err).Str("namespace", ns).Msg("response cache invalidation failed")
				continue
			}
			resp.ResponsesDropped += n
		}
	}

	h.log.Info().Str("prefix", prefix.String()).Int("entries", resp.Entries).Int("responses", resp.ResponsesDropped).Msg("cache invalidated")
	return c.JSON(http.StatusOK, resp)
}

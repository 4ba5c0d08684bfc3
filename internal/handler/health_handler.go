package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Cache  string `json:"cache"`
}

// HealthHandler reports store and cache reachability.
type HealthHandler struct {
	store   Pinger
	cache   Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache, timeout: 2 * time.Second}
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", DB: "up", Cache: "up"}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		resp.Status, resp.DB = "degraded", "down"
		status = http.StatusServiceUnavailable
	}
	// The cache fails safe, so its outage does not degrade the service.
	if h.cache == nil {
		resp.Cache = "disabled"
	} else if err := h.cache.Ping(ctx); err != nil {
		resp.Cache = "down"
	}
	return c.JSON(status, resp)
}

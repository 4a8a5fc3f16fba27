package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Pinger is any collaborator that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready — readiness probe.
// Checks the remote Places API and the session vault before declaring the
// client ready.
type ReadinessHandler struct {
	api   Pinger
	vault Pinger
}

func NewReadinessHandler(api Pinger, vault Pinger) *ReadinessHandler {
	return &ReadinessHandler{api: api, vault: vault}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := map[string]dependencyStatus{
		"places_api":    check(ctx, h.api),
		"session_vault": check(ctx, h.vault),
	}

	status := "ok"
	code := http.StatusOK
	for _, d := range deps {
		if d.Status != "ok" {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}

func check(ctx context.Context, p Pinger) dependencyStatus {
	if p == nil {
		return dependencyStatus{Status: "skipped"}
	}
	if err := p.Ping(ctx); err != nil {
		return dependencyStatus{Status: "down", Error: err.Error()}
	}
	return dependencyStatus{Status: "ok"}
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carrental/admin-api/internal/api/response"
	"github.com/carrental/admin-api/internal/core/ports"
)

const readinessTimeout = 3 * time.Second

// UserCounter reports how many accounts exist.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// HealthHandler serves the liveness and readiness checks.
type HealthHandler struct {
	deps          map[string]ports.Pinger
	users         UserCounter
	exposeDetails bool
}

func NewHealthHandler(deps map[string]ports.Pinger, users UserCounter, exposeDetails bool) *HealthHandler {
	return &HealthHandler{deps: deps, users: users, exposeDetails: exposeDetails}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type livenessData struct {
	Status string `json:"status"`
}

type readinessData struct {
	Status       string                      `json:"status"`
	UserCount    *int64                      `json:"userCount,omitempty"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness confirms the process is up.
//
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  response.Envelope{data=livenessData}
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return response.JSON(c, http.StatusOK, "Service is alive", livenessData{Status: "ok"})
}

// Readiness pings every dependency and counts users as an end-to-end store check.
//
// @Summary  Readiness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  response.Envelope{data=readinessData}
// @Failure  503  {object}  response.Envelope{data=readinessData}
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true

	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			deps[name] = h.unhealthy(err)
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	resp := readinessData{Dependencies: deps}
	if h.users != nil {
		n, err := h.users.Count(ctx)
		if err != nil {
			deps["users"] = h.unhealthy(err)
			healthy = false
		} else {
			resp.UserCount = &n
		}
	}

	if !healthy {
		resp.Status = "degraded"
		return response.JSON(c, http.StatusServiceUnavailable, "Service degraded", resp)
	}
	resp.Status = "ok"
	return response.JSON(c, http.StatusOK, "Service ready", resp)
}

func (h *HealthHandler) unhealthy(err error) dependencyStatus {
	st := dependencyStatus{Status: "unhealthy"}
	if h.exposeDetails {
		st.Error = err.Error()
	}
	return st
}

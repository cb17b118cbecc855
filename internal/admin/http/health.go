package http

import (
	"context"
	"net/http"
	"time"

	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/pkg/adminsdk"
	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/bioisac/admindesk/pkg/slogx"
)

// checkTimeout bounds each dependency check so a hung backend reads as down
// instead of stalling the response.
const checkTimeout = 2 * time.Second

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnreachable = "error: unreachable"
)

// pinger is implemented by session backends that live outside the database.
type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store   store.Store
	Version string
	Started time.Time
}

func (h *HealthHandler) response(status string, checks *adminsdk.HealthChecks) adminsdk.HealthResponse {
	return adminsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.Started).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}

// HandleLivez godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adminsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h *HealthHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.response(statusOK, nil))
}

// HandleReadyz godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and, when separate, the session store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adminsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	adminsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func (h *HealthHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	healthy := true

	check := func(name string, ping func(context.Context) error) string {
		ctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()

		if err := ping(ctx); err != nil {
			// Details go to the log only; the endpoint is unauthenticated.
			slogx.FromContext(ctx).Error("readiness check failed", "check", name, "err", err)
			healthy = false
			return statusUnreachable
		}
		return statusOK
	}

	checks := &adminsdk.HealthChecks{Database: check("database", h.Store.Ping)}
	if p, ok := h.Store.Sessions().(pinger); ok {
		checks.Sessions = check("sessions", p.Ping)
	}

	if !healthy {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, h.response(statusDegraded, checks))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.response(statusOK, checks))
}

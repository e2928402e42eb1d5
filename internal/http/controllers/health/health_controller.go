// Package health exposes the liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/pmckinstry/ideas/internal/cache"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/store/core"
)

const probeTimeout = 2 * time.Second

// Controller answers the health endpoints.
type Controller struct {
	store core.Repository
	cache cache.Client
}

func NewController(store core.Repository, c cache.Client) *Controller {
	return &Controller{store: store, cache: c}
}

type status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz handles GET /healthz. Always OK while the process serves.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	httperr.WriteJSON(w, http.StatusOK, status{Status: "ok"})
}

// Readyz handles GET /readyz and pings the store and cache.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := map[string]string{}
	ready := true

	if err := c.store.Ping(ctx); err != nil {
		logger.From(ctx).Warn("store not ready", logger.Err(err))
		checks["store"] = err.Error()
		ready = false
	} else {
		checks["store"] = "ok"
	}

	if c.cache != nil {
		if err := c.cache.Ping(ctx); err != nil {
			logger.From(ctx).Warn("cache not ready", logger.Err(err))
			checks["cache"] = err.Error()
			ready = false
		} else {
			checks["cache"] = "ok"
		}
	}

	if !ready {
		httperr.WriteJSON(w, http.StatusServiceUnavailable, status{Status: "unavailable", Checks: checks})
		return
	}
	httperr.WriteJSON(w, http.StatusOK, status{Status: "ok", Checks: checks})
}

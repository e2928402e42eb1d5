// Package admin contains the operator endpoints.
package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	dto "github.com/pmckinstry/ideas/internal/http/dto/admin"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	svc "github.com/pmckinstry/ideas/internal/http/services/admin"
	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// Controller handles the admin account endpoints.
type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// ListAccounts handles GET /v1/admin/accounts
func (c *Controller) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	page, err := c.service.ListAccounts(ctx, limit, offset)
	if err != nil {
		logger.From(ctx).Error("list accounts failed", logger.Err(err))
		httperr.WriteError(w, httperr.ErrInternalServerError.WithCause(err))
		return
	}
	httperr.WriteJSON(w, http.StatusOK, dto.FromAccountPage(page, limit, offset))
}

// DisableAccount handles POST /v1/admin/accounts/{id}/disable
func (c *Controller) DisableAccount(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

// EnableAccount handles POST /v1/admin/accounts/{id}/enable
func (c *Controller) EnableAccount(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

func (c *Controller) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx := r.Context()

	err := c.service.SetAccountActive(ctx, chi.URLParam(r, "id"), active)
	if err != nil {
		if errors.Is(err, svc.ErrNotFound) {
			httperr.WriteError(w, httperr.ErrNotFound)
			return
		}
		httperr.WriteError(w, httperr.ErrInternalServerError.WithCause(err))
		return
	}
	httperr.WriteJSON(w, http.StatusNoContent, nil)
}

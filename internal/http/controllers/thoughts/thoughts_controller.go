// Package thoughts contains the controllers for the note endpoints.
package thoughts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	dto "github.com/pmckinstry/ideas/internal/http/dto/thoughts"
	"github.com/pmckinstry/ideas/internal/http/httperr"
	"github.com/pmckinstry/ideas/internal/http/middlewares"
	svc "github.com/pmckinstry/ideas/internal/http/services/thoughts"
	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/store/core"
)

// Controller handles the thought CRUD and listing endpoints.
type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func parseFilter(r *http.Request) core.ThoughtFilter {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return core.ThoughtFilter{
		Query:  q.Get("q"),
		Tag:    q.Get("tag"),
		Limit:  limit,
		Offset: offset,
	}
}

func writeThoughtError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		httperr.WriteError(w, httperr.ErrNotFound)
	case errors.Is(err, svc.ErrForbidden):
		httperr.WriteError(w, httperr.ErrForbidden)
	case errors.Is(err, svc.ErrInvalid):
		httperr.WriteError(w, httperr.ErrBadRequest.WithDetail("invalid thought fields"))
	default:
		httperr.WriteError(w, httperr.ErrInternalServerError.WithCause(err))
	}
}

// Create handles POST /v1/thoughts
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middlewares.GetPrincipal(ctx)

	var req dto.CreateRequest
	if err := httperr.ReadJSON(w, r, &req); err != nil {
		httperr.WriteError(w, err)
		return
	}

	th, err := c.service.Create(ctx, p.AccountID, svc.CreateRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Public:   req.Public,
	})
	if err != nil {
		logger.From(ctx).Debug("thought create failed", logger.Err(err))
		writeThoughtError(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusCreated, dto.FromThought(th))
}

// Get handles GET /v1/thoughts/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID := ""
	if p := middlewares.GetPrincipal(ctx); p != nil {
		accountID = p.AccountID
	}

	th, err := c.service.Get(ctx, accountID, chi.URLParam(r, "id"))
	if err != nil {
		writeThoughtError(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, dto.FromThought(th))
}

// Update handles PATCH /v1/thoughts/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middlewares.GetPrincipal(ctx)

	var req dto.UpdateRequest
	if err := httperr.ReadJSON(w, r, &req); err != nil {
		httperr.WriteError(w, err)
		return
	}

	th, err := c.service.Update(ctx, p.AccountID, chi.URLParam(r, "id"), svc.UpdateRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Public:   req.Public,
	})
	if err != nil {
		writeThoughtError(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, dto.FromThought(th))
}

// Delete handles DELETE /v1/thoughts/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middlewares.GetPrincipal(ctx)

	if err := c.service.Delete(ctx, p.AccountID, chi.URLParam(r, "id")); err != nil {
		writeThoughtError(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusNoContent, nil)
}

// List handles GET /v1/thoughts
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := middlewares.GetPrincipal(ctx)

	f := svc.NormalizeFilter(parseFilter(r))
	page, err := c.service.List(ctx, p.AccountID, f)
	if err != nil {
		writeThoughtError(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, dto.FromPage(page, f.Limit, f.Offset))
}

// ListPublic handles GET /v1/public/thoughts
func (c *Controller) ListPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f := svc.NormalizeFilter(parseFilter(r))
	page, err := c.service.ListPublic(ctx, f)
	if err != nil {
		writeThoughtError(w, err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, dto.FromPage(page, f.Limit, f.Offset))
}

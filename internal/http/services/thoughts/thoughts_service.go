// Package thoughts implements the note CRUD, search and sharing flows.
package thoughts

import (
	"context"
	"errors"
	"strings"

	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/store/core"
)

var (
	ErrNotFound  = errors.New("thoughts: not found")
	ErrForbidden = errors.New("thoughts: not the owner")
	ErrInvalid   = errors.New("thoughts: invalid input")
)

const (
	maxTitleLen  = 200
	maxTags      = 16
	defaultLimit = 20
	maxPageLimit = 100
)

// CreateRequest carries the writable fields of a thought.
type CreateRequest struct {
	Title    string
	Content  string
	Category string
	Tags     []string
	Public   bool
}

// UpdateRequest updates only the non-nil fields.
type UpdateRequest struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
	Public   *bool
}

type Service interface {
	Create(ctx context.Context, accountID string, req CreateRequest) (*core.Thought, error)
	Get(ctx context.Context, accountID, thoughtID string) (*core.Thought, error)
	Update(ctx context.Context, accountID, thoughtID string, req UpdateRequest) (*core.Thought, error)
	Delete(ctx context.Context, accountID, thoughtID string) error
	List(ctx context.Context, accountID string, f core.ThoughtFilter) (*core.ThoughtPage, error)
	ListPublic(ctx context.Context, f core.ThoughtFilter) (*core.ThoughtPage, error)
}

type service struct {
	store core.Repository
}

func New(store core.Repository) Service {
	return &service{store: store}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// NormalizeFilter applies the listing defaults and bounds. Controllers
// use it too, so responses echo the limit and offset actually applied.
func NormalizeFilter(f core.ThoughtFilter) core.ThoughtFilter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Query = strings.TrimSpace(f.Query)
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	return f
}

func (s *service) Create(ctx context.Context, accountID string, req CreateRequest) (*core.Thought, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("thoughts"), logger.Op("create"))

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > maxTitleLen {
		return nil, ErrInvalid
	}
	tags := normalizeTags(req.Tags)
	if len(tags) > maxTags {
		return nil, ErrInvalid
	}

	th := &core.Thought{
		AccountID: accountID,
		Title:     req.Title,
		Content:   req.Content,
		Category:  strings.TrimSpace(req.Category),
		Tags:      tags,
		Public:    req.Public,
	}
	if err := s.store.CreateThought(ctx, th); err != nil {
		log.Error("create failed", logger.Err(err))
		return nil, err
	}
	log.Info("thought created", logger.ThoughtID(th.ID), logger.AccountID(accountID))
	return th, nil
}

// Get returns a thought the caller owns, or any public thought.
// accountID may be empty for anonymous callers.
func (s *service) Get(ctx context.Context, accountID, thoughtID string) (*core.Thought, error) {
	th, err := s.store.GetThought(ctx, thoughtID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if th.AccountID != accountID && !th.Public {
		// Hide existence from non-owners.
		return nil, ErrNotFound
	}
	return th, nil
}

func (s *service) Update(ctx context.Context, accountID, thoughtID string, req UpdateRequest) (*core.Thought, error) {
	th, err := s.store.GetThought(ctx, thoughtID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if th.AccountID != accountID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" || len(t) > maxTitleLen {
			return nil, ErrInvalid
		}
		th.Title = t
	}
	if req.Content != nil {
		th.Content = *req.Content
	}
	if req.Category != nil {
		th.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		tags := normalizeTags(*req.Tags)
		if len(tags) > maxTags {
			return nil, ErrInvalid
		}
		th.Tags = tags
	}
	if req.Public != nil {
		th.Public = *req.Public
	}

	if err := s.store.UpdateThought(ctx, th); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return th, nil
}

func (s *service) Delete(ctx context.Context, accountID, thoughtID string) error {
	th, err := s.store.GetThought(ctx, thoughtID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if th.AccountID != accountID {
		return ErrForbidden
	}
	return s.store.DeleteThought(ctx, thoughtID)
}

func (s *service) List(ctx context.Context, accountID string, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	return s.store.ListThoughts(ctx, accountID, NormalizeFilter(f))
}

func (s *service) ListPublic(ctx context.Context, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	return s.store.ListPublicThoughts(ctx, NormalizeFilter(f))
}

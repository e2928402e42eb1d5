// Package admin exposes operator actions over accounts.
package admin

import (
	"context"
	"errors"

	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/store/core"
)

var ErrNotFound = errors.New("admin: account not found")

// AccountPage is one page of accounts plus the unfiltered total.
type AccountPage struct {
	Accounts []core.Account
	Total    int
}

type Service interface {
	ListAccounts(ctx context.Context, limit, offset int) (*AccountPage, error)
	SetAccountActive(ctx context.Context, accountID string, active bool) error
}

type service struct {
	store core.Repository
}

func New(store core.Repository) Service {
	return &service{store: store}
}

func (s *service) ListAccounts(ctx context.Context, limit, offset int) (*AccountPage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	accs, err := s.store.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return &AccountPage{Accounts: accs, Total: total}, nil
}

func (s *service) SetAccountActive(ctx context.Context, accountID string, active bool) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("admin"))
	if err := s.store.SetAccountActive(ctx, accountID, active); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	log.Info("account active flag set", logger.AccountID(accountID), logger.Bool("active", active))
	return nil
}

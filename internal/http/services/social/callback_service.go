package social

import (
	"context"
	"fmt"

	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/store/core"
)

// CallbackRequest carries the provider redirect's query parameters.
type CallbackRequest struct {
	Code       string
	State      string
	ErrorParam string
}

// CallbackResult is a successful resolution.
type CallbackResult struct {
	Account *core.Account
	Created bool
}

// CallbackService processes the provider redirect: error short-circuit,
// code exchange, profile fetch and reconciliation. Failures never retry
// the provider; they surface one of the flow errors from social.go.
type CallbackService interface {
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error)
}

// CallbackDeps contains dependencies for the callback service. A nil
// Provider means federated login is disabled.
type CallbackDeps struct {
	Provider    Provider
	StateSigner StateSigner
	Reconciler  *Reconciler
}

type callbackService struct {
	provider   Provider
	signer     StateSigner
	reconciler *Reconciler
}

func NewCallbackService(d CallbackDeps) CallbackService {
	return &callbackService{provider: d.Provider, signer: d.StateSigner, reconciler: d.Reconciler}
}

func (s *callbackService) Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.callback"))

	if s.provider == nil {
		return nil, ErrProviderNotConfigured
	}

	// Provider error short-circuits before anything else; no account
	// lookup, no network call.
	if req.ErrorParam != "" {
		log.Warn("provider returned error", logger.String("error", req.ErrorParam))
		return nil, &ProviderError{Code: req.ErrorParam}
	}

	if req.Code == "" {
		return nil, ErrNoAuthorizationCode
	}

	if s.signer != nil {
		provider, err := s.signer.ParseState(req.State)
		if err != nil {
			log.Warn("state validation failed", logger.Err(err))
			return nil, ErrInvalidState
		}
		if provider != s.provider.Name() {
			log.Warn("state provider mismatch",
				logger.String("state_provider", provider), logger.Provider(s.provider.Name()))
			return nil, ErrInvalidState
		}
	}

	accessToken, err := s.provider.ExchangeCode(ctx, req.Code)
	if err != nil {
		log.Error("code exchange failed", logger.Provider(s.provider.Name()), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, err)
	}

	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		log.Error("profile fetch failed", logger.Provider(s.provider.Name()), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	if profile.Email == "" {
		log.Error("email missing in profile",
			logger.Provider(s.provider.Name()), logger.String("subject", profile.SubjectID))
		return nil, ErrEmailMissing
	}

	acc, created, err := s.reconciler.Resolve(ctx, *profile)
	if err != nil {
		return nil, err
	}
	if !acc.Active {
		log.Warn("federated login refused, account disabled",
			logger.AccountID(acc.ID), logger.Provider(s.provider.Name()))
		return nil, ErrAccountDisabled
	}

	log.Info("federated login resolved",
		logger.AccountID(acc.ID),
		logger.Provider(s.provider.Name()),
		logger.Bool("created", created),
	)
	return &CallbackResult{Account: acc, Created: created}, nil
}

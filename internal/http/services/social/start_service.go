package social

import (
	"context"

	"github.com/pmckinstry/ideas/internal/observability/logger"
)

// StartService initiates the federated login flow.
type StartService interface {
	// Start returns the provider authorization URL to redirect the user
	// agent to, or ErrProviderNotConfigured when the provider client
	// credentials are absent.
	Start(ctx context.Context) (string, error)
}

// StartDeps contains dependencies for the start service. A nil Provider
// means federated login is disabled.
type StartDeps struct {
	Provider    Provider
	StateSigner StateSigner
}

type startService struct {
	provider Provider
	signer   StateSigner
}

func NewStartService(d StartDeps) StartService {
	return &startService{provider: d.Provider, signer: d.StateSigner}
}

func (s *startService) Start(ctx context.Context) (string, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.start"))

	if s.provider == nil {
		return "", ErrProviderNotConfigured
	}

	state, err := s.signer.SignState(s.provider.Name())
	if err != nil {
		log.Error("failed to sign state", logger.Err(err))
		return "", err
	}

	url := s.provider.AuthURL(state)
	log.Debug("federated login initiated", logger.Provider(s.provider.Name()))
	return url, nil
}

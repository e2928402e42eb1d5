package social

import (
	"context"

	"github.com/pmckinstry/ideas/internal/oauth/google"
)

// ProviderGoogle is the provider name stored on federated accounts.
const ProviderGoogle = "google"

type googleProvider struct {
	client *google.Client
}

// NewGoogleProvider wraps the Google OAuth client as a Provider.
func NewGoogleProvider(client *google.Client) Provider {
	return &googleProvider{client: client}
}

func (p *googleProvider) Name() string { return ProviderGoogle }

func (p *googleProvider) AuthURL(state string) string {
	return p.client.AuthURL(state)
}

func (p *googleProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	tr, err := p.client.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}
	return tr.AccessToken, nil
}

func (p *googleProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	gp, err := p.client.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Provider:  ProviderGoogle,
		SubjectID: gp.SubjectID,
		Email:     gp.Email,
		Name:      gp.Name,
	}, nil
}

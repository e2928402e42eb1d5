package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pmckinstry/ideas/internal/store/core"
	"github.com/pmckinstry/ideas/internal/store/memory"
)

// fakeProvider records outbound calls so tests can assert the flow
// short-circuits before any network round-trip.
type fakeProvider struct {
	exchangeCalls int
	profileCalls  int

	token       string
	exchangeErr error
	profile     *Profile
	profileErr  error
}

func (f *fakeProvider) Name() string                { return ProviderGoogle }
func (f *fakeProvider) AuthURL(state string) string { return "https://provider.test/auth?state=" + state }

func (f *fakeProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func newCallbackFixture(p *fakeProvider) (CallbackService, *HS256Signer) {
	signer := NewStateSigner("test-secret", time.Minute)
	svc := NewCallbackService(CallbackDeps{
		Provider:    p,
		StateSigner: signer,
		Reconciler:  NewReconciler(memory.New()),
	})
	return svc, signer
}

func validState(t *testing.T, signer *HS256Signer) string {
	t.Helper()
	state, err := signer.SignState(ProviderGoogle)
	if err != nil {
		t.Fatal(err)
	}
	return state
}

func TestCallback_ProviderErrorShortCircuits(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{}
	svc, signer := newCallbackFixture(p)

	_, err := svc.Callback(context.Background(), CallbackRequest{
		ErrorParam: "access_denied",
		State:      validState(t, signer),
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("want ProviderError, got %v", err)
	}
	if provErr.Code != "access_denied" {
		t.Fatalf("code: got %q", provErr.Code)
	}
	if p.exchangeCalls != 0 || p.profileCalls != 0 {
		t.Fatalf("provider must not be called: exchange=%d profile=%d", p.exchangeCalls, p.profileCalls)
	}
}

func TestCallback_MissingCode(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{}
	svc, signer := newCallbackFixture(p)

	_, err := svc.Callback(context.Background(), CallbackRequest{State: validState(t, signer)})
	if !errors.Is(err, ErrNoAuthorizationCode) {
		t.Fatalf("want ErrNoAuthorizationCode, got %v", err)
	}
	if p.exchangeCalls != 0 {
		t.Fatal("exchange must not run without a code")
	}
}

func TestCallback_InvalidState(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{}
	svc, _ := newCallbackFixture(p)

	_, err := svc.Callback(context.Background(), CallbackRequest{Code: "abc", State: "tampered"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
	if p.exchangeCalls != 0 {
		t.Fatal("exchange must not run with a bad state")
	}
}

func TestCallback_TokenExchangeFailed(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{exchangeErr: errors.New("boom")}
	svc, signer := newCallbackFixture(p)

	_, err := svc.Callback(context.Background(), CallbackRequest{Code: "abc", State: validState(t, signer)})
	if !errors.Is(err, ErrTokenExchangeFailed) {
		t.Fatalf("want ErrTokenExchangeFailed, got %v", err)
	}
	if p.profileCalls != 0 {
		t.Fatal("profile fetch must not run after failed exchange")
	}
}

func TestCallback_ProfileFetchFailed(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{token: "tok", profileErr: errors.New("boom")}
	svc, signer := newCallbackFixture(p)

	_, err := svc.Callback(context.Background(), CallbackRequest{Code: "abc", State: validState(t, signer)})
	if !errors.Is(err, ErrProfileFetchFailed) {
		t.Fatalf("want ErrProfileFetchFailed, got %v", err)
	}
}

func TestCallback_EmailMissing(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{token: "tok", profile: &Profile{Provider: ProviderGoogle, SubjectID: "g1"}}
	svc, signer := newCallbackFixture(p)

	_, err := svc.Callback(context.Background(), CallbackRequest{Code: "abc", State: validState(t, signer)})
	if !errors.Is(err, ErrEmailMissing) {
		t.Fatalf("want ErrEmailMissing, got %v", err)
	}
}

func TestCallback_Success(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{
		token:   "tok",
		profile: &Profile{Provider: ProviderGoogle, SubjectID: "g1", Email: "new@example.com", Name: "New User"},
	}
	svc, signer := newCallbackFixture(p)

	res, err := svc.Callback(context.Background(), CallbackRequest{Code: "abc", State: validState(t, signer)})
	if err != nil {
		t.Fatalf("Callback err: %v", err)
	}
	if !res.Created {
		t.Fatal("expected a provisioned account")
	}
	if res.Account.Email != "new@example.com" {
		t.Fatalf("email: got %q", res.Account.Email)
	}
	if p.exchangeCalls != 1 || p.profileCalls != 1 {
		t.Fatalf("unexpected call counts: exchange=%d profile=%d", p.exchangeCalls, p.profileCalls)
	}
}

func TestCallback_DisabledAccountRefused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	acc, err := store.CreateAccount(ctx, core.NewAccount{
		Username:  "casey",
		Email:     "casey@example.com",
		Federated: &core.FederatedIdentity{Provider: ProviderGoogle, SubjectID: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetAccountActive(ctx, acc.ID, false); err != nil {
		t.Fatal(err)
	}

	p := &fakeProvider{
		token:   "tok",
		profile: &Profile{Provider: ProviderGoogle, SubjectID: "g1", Email: "casey@example.com", Name: "Casey"},
	}
	signer := NewStateSigner("test-secret", time.Minute)
	svc := NewCallbackService(CallbackDeps{
		Provider:    p,
		StateSigner: signer,
		Reconciler:  NewReconciler(store),
	})

	_, err = svc.Callback(ctx, CallbackRequest{Code: "abc", State: validState(t, signer)})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("want ErrAccountDisabled, got %v", err)
	}
}

func TestCallback_ProviderNotConfigured(t *testing.T) {
	t.Parallel()
	svc := NewCallbackService(CallbackDeps{
		StateSigner: NewStateSigner("s", time.Minute),
		Reconciler:  NewReconciler(memory.New()),
	})
	_, err := svc.Callback(context.Background(), CallbackRequest{Code: "abc"})
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("want ErrProviderNotConfigured, got %v", err)
	}
}

func TestStart_ProviderNotConfigured(t *testing.T) {
	t.Parallel()
	svc := NewStartService(StartDeps{StateSigner: NewStateSigner("s", time.Minute)})
	_, err := svc.Start(context.Background())
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("want ErrProviderNotConfigured, got %v", err)
	}
}

func TestStart_ReturnsProviderAuthURL(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{}
	svc := NewStartService(StartDeps{Provider: p, StateSigner: NewStateSigner("s", time.Minute)})

	authURL, err := svc.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if authURL == "" || authURL == "https://provider.test/auth?state=" {
		t.Fatalf("auth URL missing state: %q", authURL)
	}
}

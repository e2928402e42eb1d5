package social

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pmckinstry/ideas/internal/store/core"
	"github.com/pmckinstry/ideas/internal/store/memory"
)

func strptr(s string) *string { return &s }

func TestResolve_ReturningFederatedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	existing, err := store.CreateAccount(ctx, core.NewAccount{
		Username:  "casey",
		Email:     "casey@example.com",
		Federated: &core.FederatedIdentity{Provider: "google", SubjectID: "g123"},
	})
	if err != nil {
		t.Fatal(err)
	}

	r := NewReconciler(store)
	acc, created, err := r.Resolve(ctx, Profile{
		Provider:  "google",
		SubjectID: "g123",
		Email:     "casey@example.com",
		Name:      "Casey",
	})
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if created {
		t.Fatal("expected returning user, got created")
	}
	if acc.ID != existing.ID {
		t.Fatalf("resolved wrong account: got %s want %s", acc.ID, existing.ID)
	}

	n, _ := store.CountAccounts(ctx)
	if n != 1 {
		t.Fatalf("account count changed: %d", n)
	}
}

func TestResolve_EmailRegisteredWithPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	if _, err := store.CreateAccount(ctx, core.NewAccount{
		Username:     "casey",
		Email:        "casey@example.com",
		PasswordHash: strptr("$argon2id$..."),
	}); err != nil {
		t.Fatal(err)
	}

	r := NewReconciler(store)
	_, _, err := r.Resolve(ctx, Profile{
		Provider:  "google",
		SubjectID: "g999",
		Email:     "casey@example.com",
		Name:      "Casey",
	})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("want ErrEmailAlreadyRegistered, got %v", err)
	}

	n, _ := store.CountAccounts(ctx)
	if n != 1 {
		t.Fatalf("refusal must not create accounts, count=%d", n)
	}
}

func TestResolve_CreatesFederatedAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	r := NewReconciler(store)
	acc, created, err := r.Resolve(ctx, Profile{
		Provider:  "google",
		SubjectID: "g123",
		Email:     "casey@example.com",
		Name:      "Casey",
	})
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if !created {
		t.Fatal("expected a new account")
	}
	if acc.Username != "Casey" {
		t.Fatalf("username: got %q want %q", acc.Username, "Casey")
	}
	if acc.PasswordHash != nil {
		t.Fatal("federated account must have no password hash")
	}
	if acc.Federated == nil || acc.Federated.Provider != "google" || acc.Federated.SubjectID != "g123" {
		t.Fatalf("federated identity not stored: %+v", acc.Federated)
	}
}

func TestResolve_UsernameFallsBackToEmailLocalPart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	r := NewReconciler(store)
	acc, _, err := r.Resolve(ctx, Profile{
		Provider:  "google",
		SubjectID: "g42",
		Email:     "quiet.writer@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if acc.Username != "quiet.writer" {
		t.Fatalf("username: got %q want %q", acc.Username, "quiet.writer")
	}
}

func TestResolve_UsernameCollisionGetsSuffix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	if _, err := store.CreateAccount(ctx, core.NewAccount{
		Username:     "Casey",
		Email:        "other@example.com",
		PasswordHash: strptr("$argon2id$..."),
	}); err != nil {
		t.Fatal(err)
	}

	r := NewReconciler(store)
	acc, created, err := r.Resolve(ctx, Profile{
		Provider:  "google",
		SubjectID: "g123",
		Email:     "casey@example.com",
		Name:      "Casey",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected a new account")
	}
	if acc.Username != "Casey-2" {
		t.Fatalf("username: got %q want %q", acc.Username, "Casey-2")
	}
}

func TestResolve_DuplicateSubmitIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()

	p := Profile{Provider: "google", SubjectID: "g123", Email: "casey@example.com", Name: "Casey"}
	r := NewReconciler(store)

	first, created, err := r.Resolve(ctx, p)
	if err != nil || !created {
		t.Fatalf("first resolve: created=%v err=%v", created, err)
	}
	second, created, err := r.Resolve(ctx, p)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if created {
		t.Fatal("second resolve must not create")
	}
	if second.ID != first.ID {
		t.Fatalf("accounts differ: %s vs %s", first.ID, second.ID)
	}
	n, _ := store.CountAccounts(ctx)
	if n != 1 {
		t.Fatalf("count=%d want 1", n)
	}
}

// racingStore makes the first CreateAccount lose a simulated race: the
// account is written through the inner store, then the call reports a
// conflict, as if another request created it in between.
type racingStore struct {
	core.Repository
	mu   sync.Mutex
	lost bool
}

func (s *racingStore) CreateAccount(ctx context.Context, a core.NewAccount) (*core.Account, error) {
	s.mu.Lock()
	first := !s.lost
	s.lost = true
	s.mu.Unlock()
	if first {
		if _, err := s.Repository.CreateAccount(ctx, a); err != nil {
			return nil, err
		}
		return nil, core.ErrConflict
	}
	return s.Repository.CreateAccount(ctx, a)
}

func TestResolve_ConflictOnCreateResolvesToWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := memory.New()
	store := &racingStore{Repository: inner}

	r := NewReconciler(store)
	acc, created, err := r.Resolve(ctx, Profile{
		Provider:  "google",
		SubjectID: "g555",
		Email:     "robin@example.com",
		Name:      "Robin",
	})
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if created {
		t.Fatal("losing the create race must resolve as returning user")
	}

	winner, err := inner.GetAccountByProviderIdentity(ctx, "google", "g555")
	if err != nil {
		t.Fatal(err)
	}
	if acc.ID != winner.ID {
		t.Fatalf("resolved %s, winner is %s", acc.ID, winner.ID)
	}
	n, _ := inner.CountAccounts(ctx)
	if n != 1 {
		t.Fatalf("count=%d want 1", n)
	}
}

func TestResolve_ConcurrentDoubleSubmit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	r := NewReconciler(store)

	p := Profile{Provider: "google", SubjectID: "g888", Email: "dana@example.com", Name: "Dana"}

	const workers = 16
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ids          []string
		createdCount int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc, created, err := r.Resolve(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				t.Errorf("Resolve err: %v", err)
				return
			}
			ids = append(ids, acc.ID)
			if created {
				createdCount++
			}
		}()
	}
	wg.Wait()

	if len(ids) != workers {
		t.Fatalf("resolved %d of %d submissions", len(ids), workers)
	}
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("submissions diverged: %s vs %s", id, ids[0])
		}
	}
	if createdCount != 1 {
		t.Fatalf("createdCount=%d want 1", createdCount)
	}
	n, _ := store.CountAccounts(ctx)
	if n != 1 {
		t.Fatalf("count=%d want 1", n)
	}
}

func TestResolve_MissingEmail(t *testing.T) {
	t.Parallel()
	r := NewReconciler(memory.New())
	_, _, err := r.Resolve(context.Background(), Profile{Provider: "google", SubjectID: "g1"})
	if !errors.Is(err, ErrEmailMissing) {
		t.Fatalf("want ErrEmailMissing, got %v", err)
	}
}

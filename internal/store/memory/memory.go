// Package memory implements the Repository on in-process maps.
// Used for development without Postgres and by the unit tests.
// Uniqueness checks run under a single mutex, so creation is atomic
// exactly like the SQL unique indexes in the pg adapter.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pmckinstry/ideas/internal/store/core"
)

type Store struct {
	mu       sync.Mutex
	accounts map[string]*core.Account
	thoughts map[string]*core.Thought
}

func New() *Store {
	return &Store{
		accounts: make(map[string]*core.Account),
		thoughts: make(map[string]*core.Thought),
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

func cloneAccount(a *core.Account) *core.Account {
	cp := *a
	if a.PasswordHash != nil {
		h := *a.PasswordHash
		cp.PasswordHash = &h
	}
	if a.Federated != nil {
		f := *a.Federated
		cp.Federated = &f
	}
	return &cp
}

func cloneThought(t *core.Thought) *core.Thought {
	cp := *t
	cp.Tags = append([]string(nil), t.Tags...)
	return &cp
}

// ====================== ACCOUNTS ======================

func (s *Store) CreateAccount(_ context.Context, n core.NewAccount) (*core.Account, error) {
	if (n.PasswordHash == nil) == (n.Federated == nil) {
		return nil, core.ErrInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(n.Email)
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) || a.Username == n.Username {
			return nil, core.ErrConflict
		}
		if n.Federated != nil && a.Federated != nil &&
			a.Federated.Provider == n.Federated.Provider &&
			a.Federated.SubjectID == n.Federated.SubjectID {
			return nil, core.ErrConflict
		}
	}

	now := time.Now().UTC()
	a := &core.Account{
		ID:           uuid.NewString(),
		Username:     n.Username,
		Email:        email,
		PasswordHash: n.PasswordHash,
		Federated:    n.Federated,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.accounts[a.ID] = cloneAccount(a)
	return a, nil
}

func (s *Store) GetAccountByID(_ context.Context, id string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return cloneAccount(a), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) GetAccountByUsername(_ context.Context, username string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) GetAccountByProviderIdentity(_ context.Context, provider, subjectID string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Federated != nil && a.Federated.Provider == provider && a.Federated.SubjectID == subjectID {
			return cloneAccount(a), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) UpdatePasswordHash(_ context.Context, accountID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok || a.PasswordHash == nil {
		return core.ErrNotFound
	}
	a.PasswordHash = &hash
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) SetAccountActive(_ context.Context, accountID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return core.ErrNotFound
	}
	a.Active = active
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ListAccounts(_ context.Context, limit, offset int) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	all := make([]core.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		all = append(all, *cloneAccount(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) CountAccounts(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts), nil
}

// ====================== THOUGHTS ======================

func (s *Store) CreateThought(_ context.Context, t *core.Thought) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.thoughts[t.ID] = cloneThought(t)
	return nil
}

func (s *Store) GetThought(_ context.Context, id string) (*core.Thought, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.thoughts[id]; ok {
		return cloneThought(t), nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) UpdateThought(_ context.Context, t *core.Thought) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.thoughts[t.ID]
	if !ok {
		return core.ErrNotFound
	}
	cur.Title = t.Title
	cur.Content = t.Content
	cur.Category = t.Category
	cur.Tags = append([]string(nil), t.Tags...)
	cur.Public = t.Public
	cur.UpdatedAt = time.Now().UTC()
	t.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Store) DeleteThought(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.thoughts[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.thoughts, id)
	return nil
}

func matches(t *core.Thought, f core.ThoughtFilter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Content), q) {
			return false
		}
	}
	if f.Tag != "" {
		found := false
		for _, tag := range t.Tags {
			if tag == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Store) list(pred func(*core.Thought) bool, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var all []core.Thought
	for _, t := range s.thoughts {
		if pred(t) && matches(t, f) {
			all = append(all, *cloneThought(t))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	page := &core.ThoughtPage{Total: len(all)}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page.Thoughts = all[offset:end]
	}
	return page, nil
}

func (s *Store) ListThoughts(_ context.Context, accountID string, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	return s.list(func(t *core.Thought) bool { return t.AccountID == accountID }, f)
}

func (s *Store) ListPublicThoughts(_ context.Context, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	return s.list(func(t *core.Thought) bool { return t.Public }, f)
}

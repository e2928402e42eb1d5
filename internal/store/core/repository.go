package core

import "context"

// NewAccount carries the fields for account creation. PasswordHash and
// Federated are mutually exclusive; the store rejects both-or-neither.
type NewAccount struct {
	Username     string
	Email        string
	PasswordHash *string
	Federated    *FederatedIdentity
}

// ThoughtPage is one page of a thought listing plus the total match count.
type ThoughtPage struct {
	Thoughts []Thought
	Total    int
}

// ThoughtFilter narrows thought listings. Zero values mean "no filter".
type ThoughtFilter struct {
	Query  string // substring match on title/content
	Tag    string // exact tag match
	Limit  int
	Offset int
}

// Repository is the persistence contract. Uniqueness of email, username
// and (provider, subject) MUST be enforced atomically at creation time;
// a violating create returns ErrConflict, never a partial write.
type Repository interface {
	Ping(ctx context.Context) error
	Close()

	// Accounts
	CreateAccount(ctx context.Context, n NewAccount) (*Account, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	GetAccountByProviderIdentity(ctx context.Context, provider, subjectID string) (*Account, error)
	UpdatePasswordHash(ctx context.Context, accountID, hash string) error
	SetAccountActive(ctx context.Context, accountID string, active bool) error
	ListAccounts(ctx context.Context, limit, offset int) ([]Account, error)
	CountAccounts(ctx context.Context) (int, error)

	// Thoughts
	CreateThought(ctx context.Context, t *Thought) error
	GetThought(ctx context.Context, id string) (*Thought, error)
	UpdateThought(ctx context.Context, t *Thought) error
	DeleteThought(ctx context.Context, id string) error
	ListThoughts(ctx context.Context, accountID string, f ThoughtFilter) (*ThoughtPage, error)
	ListPublicThoughts(ctx context.Context, f ThoughtFilter) (*ThoughtPage, error)
}

package core

import "time"

// FederatedIdentity is the (provider, subject) pair a third-party login
// resolves to. At most one account may hold a given pair.
type FederatedIdentity struct {
	Provider  string
	SubjectID string
}

// Account is a registered user. Exactly one of PasswordHash or Federated
// is the primary credential; the system never links both after the fact.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash *string
	Federated    *FederatedIdentity
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFederated reports whether the account was created via a third-party
// provider (and therefore has no local password).
func (a *Account) IsFederated() bool {
	return a != nil && a.Federated != nil
}

// Thought is a short text entry owned by an account.
type Thought struct {
	ID        string
	AccountID string
	Title     string
	Content   string
	Category  string
	Tags      []string
	Public    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

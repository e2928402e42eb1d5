package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/store/core"
)

// maxUsernameAttempts bounds the numeric-suffix probing when the derived
// username is taken.
const maxUsernameAttempts = 5

// Reconciler matches an incoming federated profile to zero or one
// existing account:
//
//  1. by (provider, subject) -> returning user, nothing is refreshed;
//  2. by email               -> conflict with another login method, refused;
//  3. neither                -> a new federated account is provisioned.
//
// The store enforces uniqueness atomically, so a concurrent duplicate
// attempt surfaces as core.ErrConflict on create; the reconciler then
// re-runs steps 1/2 instead of leaking the constraint error. Refusing at
// step 2 instead of merging is deliberate: a provider email claim is not
// proof of ownership of a password account, and creating a duplicate
// would fragment the user's thoughts.
type Reconciler struct {
	store core.Repository
}

func NewReconciler(store core.Repository) *Reconciler {
	return &Reconciler{store: store}
}

// Resolve runs the resolution algorithm. created reports whether a new
// account was provisioned by this call.
func (r *Reconciler) Resolve(ctx context.Context, p Profile) (acc *core.Account, created bool, err error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.reconcile"))

	if p.SubjectID == "" {
		return nil, false, fmt.Errorf("social: profile without subject id")
	}
	if p.Email == "" {
		return nil, false, ErrEmailMissing
	}

	// Step 1: returning federated user.
	acc, err = r.store.GetAccountByProviderIdentity(ctx, p.Provider, p.SubjectID)
	if err == nil {
		return acc, false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, err
	}

	// Step 2: the email belongs to an account that was NOT created via
	// this provider (step 1 missed). Refuse; never merge, never duplicate.
	_, err = r.store.GetAccountByEmail(ctx, p.Email)
	if err == nil {
		log.Info("federated login refused, email belongs to another account",
			logger.Provider(p.Provider), logger.Email(p.Email))
		return nil, false, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, err
	}

	// Step 3: provision. On a uniqueness conflict re-resolve: a lost
	// double-submit race means the account now exists.
	base := deriveUsername(p)
	for i := 0; i < maxUsernameAttempts; i++ {
		username := base
		if i > 0 {
			username = fmt.Sprintf("%s-%d", base, i+1)
		}
		acc, err = r.store.CreateAccount(ctx, core.NewAccount{
			Username:  username,
			Email:     p.Email,
			Federated: &core.FederatedIdentity{Provider: p.Provider, SubjectID: p.SubjectID},
		})
		if err == nil {
			log.Info("federated account created",
				logger.AccountID(acc.ID), logger.Provider(p.Provider), logger.Username(username))
			return acc, true, nil
		}
		if !errors.Is(err, core.ErrConflict) {
			return nil, false, err
		}

		// Re-run steps 1/2 to classify the conflict.
		if a, lookupErr := r.store.GetAccountByProviderIdentity(ctx, p.Provider, p.SubjectID); lookupErr == nil {
			// concurrent duplicate submit; treat as returning user
			return a, false, nil
		}
		if _, lookupErr := r.store.GetAccountByEmail(ctx, p.Email); lookupErr == nil {
			return nil, false, ErrEmailAlreadyRegistered
		}
		// Neither matched: the username itself is taken; probe the next
		// suffix.
	}
	log.Warn("username probing exhausted", logger.Provider(p.Provider), logger.Username(base))
	return nil, false, core.ErrConflict
}

// deriveUsername picks the display name, falling back to the local part
// of the email.
func deriveUsername(p Profile) string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if i := strings.IndexByte(p.Email, '@'); i > 0 {
		return p.Email[:i]
	}
	return p.Email
}

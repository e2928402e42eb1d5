// Package auth implements local credential flows: registration,
// login, profile lookup and password change.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/pmckinstry/ideas/internal/email"
	"github.com/pmckinstry/ideas/internal/observability/logger"
	"github.com/pmckinstry/ideas/internal/rate"
	"github.com/pmckinstry/ideas/internal/security/password"
	"github.com/pmckinstry/ideas/internal/store/core"
)

var (
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrUsernameTaken      = errors.New("auth: username already taken")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountDisabled    = errors.New("auth: account disabled")
	ErrRateLimited        = errors.New("auth: too many attempts")
	ErrFederatedAccount   = errors.New("auth: account uses federated login")
	ErrWeakPassword       = errors.New("auth: password does not meet policy")
	ErrNotFound           = errors.New("auth: account not found")
)

// WeakPasswordError carries the policy reasons alongside ErrWeakPassword.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "auth: password does not meet policy: " + strings.Join(e.Reasons, "; ")
}

func (e *WeakPasswordError) Is(target error) bool { return target == ErrWeakPassword }

// RegisterRequest carries the fields for local account creation.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*core.Account, error)
	Login(ctx context.Context, emailOrUsername, pass string) (*core.Account, error)
	Me(ctx context.Context, accountID string) (*core.Account, error)
	ChangePassword(ctx context.Context, accountID, current, next string) error
}

// Deps contains dependencies for the auth service. Mailer and Limiter
// are optional.
type Deps struct {
	Store   core.Repository
	Policy  password.Policy
	Hasher  password.Params
	Mailer  email.Sender
	Limiter *rate.Limiter
}

type service struct {
	store   core.Repository
	policy  password.Policy
	hasher  password.Params
	mailer  email.Sender
	limiter *rate.Limiter
}

func New(d Deps) Service {
	h := d.Hasher
	if h.Memory == 0 {
		h = password.Default
	}
	return &service{store: d.Store, policy: d.Policy, hasher: h, mailer: d.Mailer, limiter: d.Limiter}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*core.Account, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("register"))

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" {
		return nil, core.ErrInvalid
	}

	if ok, reasons := s.policy.Validate(req.Password); !ok {
		return nil, &WeakPasswordError{Reasons: reasons}
	}

	hash, err := password.Hash(s.hasher, req.Password)
	if err != nil {
		log.Error("hash failed", logger.Err(err))
		return nil, err
	}

	acc, err := s.store.CreateAccount(ctx, core.NewAccount{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hash,
	})
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			// Disambiguate for the caller.
			if existing, gerr := s.store.GetAccountByEmail(ctx, req.Email); gerr == nil && existing != nil {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		log.Error("create account failed", logger.Err(err))
		return nil, err
	}

	log.Info("account registered", logger.AccountID(acc.ID), logger.Username(acc.Username))

	if s.mailer != nil {
		if err := email.SendWelcome(s.mailer, acc.Email, acc.Username); err != nil {
			log.Warn("welcome email failed", logger.Err(err))
		}
	}
	return acc, nil
}

func (s *service) Login(ctx context.Context, emailOrUsername, pass string) (*core.Account, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("login"))

	id := strings.TrimSpace(emailOrUsername)
	if id == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, "login:"+strings.ToLower(id)) {
		log.Warn("login rate limited")
		return nil, ErrRateLimited
	}

	var acc *core.Account
	var err error
	if strings.Contains(id, "@") {
		acc, err = s.store.GetAccountByEmail(ctx, strings.ToLower(id))
	} else {
		acc, err = s.store.GetAccountByUsername(ctx, id)
	}
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if acc.IsFederated() || acc.PasswordHash == nil {
		return nil, ErrFederatedAccount
	}
	if !password.Verify(pass, *acc.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !acc.Active {
		return nil, ErrAccountDisabled
	}

	log.Info("login ok", logger.AccountID(acc.ID))
	return acc, nil
}

func (s *service) Me(ctx context.Context, accountID string) (*core.Account, error) {
	acc, err := s.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return acc, nil
}

func (s *service) ChangePassword(ctx context.Context, accountID, current, next string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("change_password"))

	acc, err := s.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if acc.IsFederated() || acc.PasswordHash == nil {
		return ErrFederatedAccount
	}

	if !password.Verify(current, *acc.PasswordHash) {
		return ErrInvalidCredentials
	}
	if ok, reasons := s.policy.Validate(next); !ok {
		return &WeakPasswordError{Reasons: reasons}
	}

	hash, err := password.Hash(s.hasher, next)
	if err != nil {
		log.Error("hash failed", logger.Err(err))
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		log.Error("update password failed", logger.Err(err))
		return err
	}
	log.Info("password changed", logger.AccountID(accountID))
	return nil
}

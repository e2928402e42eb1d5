package pg

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmckinstry/ideas/internal/store/core"
)

// Store is the Postgres-backed Repository.
type Store struct{ pool *pgxpool.Pool }

// Options tunes the underlying pgx pool.
type Options struct {
	MaxOpenConns    int
	MinIdleConns    int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(opts.MaxOpenConns)
	}
	if opts.MinIdleConns > 0 {
		pcfg.MinConns = int32(opts.MinIdleConns)
	}
	if opts.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(opts.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the underlying pool for metrics and migrations.
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// isUniqueViolation detects an atomic uniqueness failure so callers can
// map it to core.ErrConflict instead of leaking a raw constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

const accountCols = `id, username, email, password_hash, provider, provider_subject_id, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*core.Account, error) {
	var a core.Account
	var provider, subject *string
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &provider, &subject, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	if provider != nil && subject != nil {
		a.Federated = &core.FederatedIdentity{Provider: *provider, SubjectID: *subject}
	}
	return &a, nil
}

// ====================== ACCOUNTS ======================

func (s *Store) CreateAccount(ctx context.Context, n core.NewAccount) (*core.Account, error) {
	if (n.PasswordHash == nil) == (n.Federated == nil) {
		return nil, core.ErrInvalid
	}

	var provider, subject *string
	if n.Federated != nil {
		provider = &n.Federated.Provider
		subject = &n.Federated.SubjectID
	}

	// The partial unique indexes make this insert the single atomic
	// point where email/username/(provider,subject) uniqueness is decided.
	const q = `
INSERT INTO account (username, email, password_hash, provider, provider_subject_id)
VALUES ($1, LOWER($2), $3, $4, $5)
RETURNING ` + accountCols

	a, err := scanAccount(s.pool.QueryRow(ctx, q, n.Username, n.Email, n.PasswordHash, provider, subject))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.ErrConflict
		}
		return nil, err
	}
	return a, nil
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*core.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM account WHERE id = $1`
	return scanAccount(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM account WHERE LOWER(email) = LOWER($1)`
	return scanAccount(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM account WHERE username = $1`
	return scanAccount(s.pool.QueryRow(ctx, q, username))
}

func (s *Store) GetAccountByProviderIdentity(ctx context.Context, provider, subjectID string) (*core.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM account WHERE provider = $1 AND provider_subject_id = $2`
	return scanAccount(s.pool.QueryRow(ctx, q, provider, subjectID))
}

func (s *Store) UpdatePasswordHash(ctx context.Context, accountID, hash string) error {
	const q = `UPDATE account SET password_hash = $2, updated_at = now() WHERE id = $1 AND password_hash IS NOT NULL`
	tag, err := s.pool.Exec(ctx, q, accountID, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) SetAccountActive(ctx context.Context, accountID string, active bool) error {
	const q = `UPDATE account SET active = $2, updated_at = now() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, accountID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, limit, offset int) ([]core.Account, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT ` + accountCols + ` FROM account ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM account`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pmckinstry/ideas/internal/store/core"
)

const thoughtCols = `id, account_id, title, content, category, tags, is_public, created_at, updated_at`

func scanThought(row pgx.Row) (*core.Thought, error) {
	var t core.Thought
	var category *string
	err := row.Scan(&t.ID, &t.AccountID, &t.Title, &t.Content, &category, &t.Tags, &t.Public, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	if category != nil {
		t.Category = *category
	}
	return &t, nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func (s *Store) CreateThought(ctx context.Context, t *core.Thought) error {
	const q = `
INSERT INTO thought (account_id, title, content, category, tags, is_public)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return s.pool.QueryRow(ctx, q, t.AccountID, t.Title, t.Content, nullable(t.Category), tags, t.Public).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) GetThought(ctx context.Context, id string) (*core.Thought, error) {
	const q = `SELECT ` + thoughtCols + ` FROM thought WHERE id = $1`
	return scanThought(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) UpdateThought(ctx context.Context, t *core.Thought) error {
	const q = `
UPDATE thought
SET title = $2, content = $3, category = $4, tags = $5, is_public = $6, updated_at = now()
WHERE id = $1
RETURNING updated_at`
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	err := s.pool.QueryRow(ctx, q, t.ID, t.Title, t.Content, nullable(t.Category), tags, t.Public).
		Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) DeleteThought(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM thought WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// listWhere builds the WHERE clause shared by the listing queries.
func listWhere(base string, f core.ThoughtFilter, args []any) (string, []any) {
	where := base
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", n, n)
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}
	return where, args
}

func (s *Store) listThoughts(ctx context.Context, where string, args []any, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM thought WHERE `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %s FROM thought WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		thoughtCols, where, limit, offset)
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &core.ThoughtPage{Total: total}
	for rows.Next() {
		t, err := scanThought(rows)
		if err != nil {
			return nil, err
		}
		page.Thoughts = append(page.Thoughts, *t)
	}
	return page, rows.Err()
}

func (s *Store) ListThoughts(ctx context.Context, accountID string, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	where, args := listWhere("account_id = $1", f, []any{accountID})
	return s.listThoughts(ctx, where, args, f)
}

func (s *Store) ListPublicThoughts(ctx context.Context, f core.ThoughtFilter) (*core.ThoughtPage, error) {
	where, args := listWhere("is_public = $1", f, []any{true})
	return s.listThoughts(ctx, where, args, f)
}

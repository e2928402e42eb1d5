// Package thoughts holds the wire types for the thought endpoints.
package thoughts

import (
	"time"

	"github.com/pmckinstry/ideas/internal/store/core"
)

// CreateRequest is the body for POST /v1/thoughts.
type CreateRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Public   bool     `json:"public,omitempty"`
}

// UpdateRequest is the body for PATCH /v1/thoughts/{id}. Absent fields
// keep their value.
type UpdateRequest struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Public   *bool     `json:"public,omitempty"`
}

// ThoughtResponse is the wire view of a thought.
type ThoughtResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageResponse is a page of thoughts plus the total match count.
type PageResponse struct {
	Thoughts []ThoughtResponse `json:"thoughts"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func FromThought(t *core.Thought) ThoughtResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return ThoughtResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Title:     t.Title,
		Content:   t.Content,
		Category:  t.Category,
		Tags:      tags,
		Public:    t.Public,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromPage(p *core.ThoughtPage, limit, offset int) PageResponse {
	out := PageResponse{
		Thoughts: make([]ThoughtResponse, 0, len(p.Thoughts)),
		Total:    p.Total,
		Limit:    limit,
		Offset:   offset,
	}
	for i := range p.Thoughts {
		out.Thoughts = append(out.Thoughts, FromThought(&p.Thoughts[i]))
	}
	return out
}

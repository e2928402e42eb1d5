// Package admin holds the wire types for the operator endpoints.
package admin

import (
	authdto "github.com/pmckinstry/ideas/internal/http/dto/auth"
	svc "github.com/pmckinstry/ideas/internal/http/services/admin"
)

// AccountPageResponse is a page of accounts plus the total count.
type AccountPageResponse struct {
	Accounts []authdto.AccountResponse `json:"accounts"`
	Total    int                       `json:"total"`
	Limit    int                       `json:"limit"`
	Offset   int                       `json:"offset"`
}

func FromAccountPage(p *svc.AccountPage, limit, offset int) AccountPageResponse {
	out := AccountPageResponse{
		Accounts: make([]authdto.AccountResponse, 0, len(p.Accounts)),
		Total:    p.Total,
		Limit:    limit,
		Offset:   offset,
	}
	for i := range p.Accounts {
		out.Accounts = append(out.Accounts, authdto.FromAccount(&p.Accounts[i]))
	}
	return out
}

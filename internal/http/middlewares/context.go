package middlewares

import (
	"context"

	"github.com/pmckinstry/ideas/internal/http/services/session"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyPrincipal
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID returns the request id injected by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKeyRequestID).(string)
	return rid
}

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	AccountID string
	Username  string
	SessionID string
}

func setPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// GetPrincipal returns the authenticated caller, or nil for anonymous
// requests.
func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxKeyPrincipal).(*Principal)
	return p
}

func principalFromPayload(sessionID string, p *session.Payload) *Principal {
	return &Principal{AccountID: p.AccountID, Username: p.Username, SessionID: sessionID}
}

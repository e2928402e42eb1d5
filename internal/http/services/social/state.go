package social

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// StateAudience is the expected audience for login state tokens.
const StateAudience = "social-state"

// StateSigner signs and validates the OAuth state parameter. Verifying
// a signed state on the callback ties the redirect back to a consent
// URL this process issued.
type StateSigner interface {
	SignState(provider string) (string, error)
	ParseState(token string) (provider string, err error)
}

// HS256Signer implements StateSigner with a shared secret.
type HS256Signer struct {
	Secret []byte
	TTL    time.Duration
}

func NewStateSigner(secret string, ttl time.Duration) *HS256Signer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	key := []byte(secret)
	if len(key) == 0 {
		// ephemeral per-process secret; states outlive restarts only
		// when a secret is configured
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &HS256Signer{Secret: key, TTL: ttl}
}

func (s *HS256Signer) SignState(provider string) (string, error) {
	now := time.Now().UTC()
	var nonce [12]byte
	_, _ = rand.Read(nonce[:])
	claims := jwtv5.MapClaims{
		"aud":      StateAudience,
		"iat":      now.Unix(),
		"exp":      now.Add(s.TTL).Unix(),
		"provider": provider,
		"nonce":    base64.RawURLEncoding.EncodeToString(nonce[:]),
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *HS256Signer) ParseState(token string) (string, error) {
	tk, err := jwtv5.Parse(token,
		func(*jwtv5.Token) (any, error) { return s.Secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithAudience(StateAudience),
	)
	if err != nil || !tk.Valid {
		return "", ErrInvalidState
	}
	claims, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", ErrInvalidState
	}
	provider, _ := claims["provider"].(string)
	if provider == "" {
		return "", ErrInvalidState
	}
	return provider, nil
}

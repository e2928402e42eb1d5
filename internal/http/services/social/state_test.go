package social

import (
	"errors"
	"testing"
	"time"
)

func TestState_RoundTrip(t *testing.T) {
	t.Parallel()
	s := NewStateSigner("secret", time.Minute)

	token, err := s.SignState("google")
	if err != nil {
		t.Fatal(err)
	}
	provider, err := s.ParseState(token)
	if err != nil {
		t.Fatalf("ParseState err: %v", err)
	}
	if provider != "google" {
		t.Fatalf("provider: got %q", provider)
	}
}

func TestState_WrongSecretRejected(t *testing.T) {
	t.Parallel()
	a := NewStateSigner("secret-a", time.Minute)
	b := NewStateSigner("secret-b", time.Minute)

	token, err := a.SignState("google")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.ParseState(token); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
}

func TestState_ExpiredRejected(t *testing.T) {
	t.Parallel()
	s := &HS256Signer{Secret: []byte("secret"), TTL: -time.Minute}

	token, err := s.SignState("google")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ParseState(token); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
}

func TestState_GarbageRejected(t *testing.T) {
	t.Parallel()
	s := NewStateSigner("secret", time.Minute)
	if _, err := s.ParseState("not-a-jwt"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
}

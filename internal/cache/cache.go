// Package cache provides the key/value layer backing sessions and rate
// limiting, with memory and redis backends.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client defines the cache operations.
type Client interface {
	// Get returns a value or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Increment adds delta to an integer value, creating it at delta with
	// the given ttl when absent. Used by the rate limiter.
	Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string
}

var ErrNotFound = errors.New("cache: key not found")

// New builds a Client from the configuration. Unknown drivers fall back
// to the memory backend.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}

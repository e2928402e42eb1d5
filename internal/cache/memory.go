package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implements Client on patrickmn/go-cache.
// Good enough for development and single-node deployments.
type memoryClient struct {
	c      *gocache.Cache
	prefix string

	// go-cache has no atomic create-or-increment, so counters are
	// serialized here.
	incMu sync.Mutex
}

// NewMemory creates an in-process cache client.
func NewMemory(prefix string) Client {
	return &memoryClient{
		c:      gocache.New(gocache.NoExpiration, time.Minute),
		prefix: prefix,
	}
}

func (m *memoryClient) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(m.key(key), value, ttl)
	return nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Increment(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	m.incMu.Lock()
	defer m.incMu.Unlock()

	k := m.key(key)
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	// Add fails when the key already exists; then increment in place so
	// the original window expiration is preserved.
	if err := m.c.Add(k, delta, ttl); err == nil {
		return delta, nil
	}
	n, err := m.c.IncrementInt64(k, delta)
	if err != nil {
		// expired between Add and Increment; start a fresh window
		m.c.Set(k, delta, ttl)
		return delta, nil
	}
	return n, nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }
func (m *memoryClient) Close() error               { return nil }

// Package rate implements a fixed-window counter over the cache layer.
package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/pmckinstry/ideas/internal/cache"
)

// Limiter counts events per key within a fixed window. It fails open:
// a cache error never blocks the caller.
type Limiter struct {
	cache  cache.Client
	limit  int64
	window time.Duration
}

func NewLimiter(c cache.Client, limit int64, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{cache: c, limit: limit, window: window}
}

// Allow records one event for key and reports whether it is within the
// window's budget.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.cache == nil {
		return true
	}
	bucket := time.Now().Unix() / int64(l.window.Seconds())
	k := fmt.Sprintf("rate:%s:%d", key, bucket)
	n, err := l.cache.Increment(ctx, k, 1, l.window)
	if err != nil {
		return true
	}
	return n <= l.limit
}

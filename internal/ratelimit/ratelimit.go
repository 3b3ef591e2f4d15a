package ratelimit

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/amishk599/jobscout/internal/model"
)

// HostRateLimiter enforces a minimum delay between requests to the same host.
// Scheduled runs and trigger-initiated runs share one instance, so the feed
// operator never sees fetches closer together than minDelay.
type HostRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: host
	minDelay time.Duration
}

// NewHostRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same host.
func NewHostRateLimiter(minDelay time.Duration) *HostRateLimiter {
	return &HostRateLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the given host.
// Returns an error if the context is cancelled while waiting.
func (r *HostRateLimiter) Wait(ctx context.Context, host string) error {
	r.mu.Lock()
	last, ok := r.lastCall[host]
	now := time.Now()

	if !ok {
		// First request for this host: no wait needed.
		r.lastCall[host] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		r.lastCall[host] = now
		r.mu.Unlock()
		return nil
	}

	// Reserve the next slot before releasing the lock so concurrent callers queue up behind it.
	next := last.Add(r.minDelay)
	r.lastCall[host] = next
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "rate limiter wait for %s", host)
	case <-time.After(time.Until(next)):
	}

	return nil
}

// RateLimitedSource is a decorator that enforces host-level rate limiting
// before delegating to the wrapped FeedSource.
type RateLimitedSource struct {
	inner   model.FeedSource
	limiter *HostRateLimiter
	host    string
}

// NewRateLimitedSource wraps a FeedSource with host-level rate limiting.
// All sources targeting the same host should share the same limiter instance.
func NewRateLimitedSource(inner model.FeedSource, limiter *HostRateLimiter, host string) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: limiter,
		host:    host,
	}
}

// FetchItems waits for the rate limiter to allow a request, then delegates to
// the wrapped source.
func (s *RateLimitedSource) FetchItems(ctx context.Context) ([]model.FeedItem, error) {
	if err := s.limiter.Wait(ctx, s.host); err != nil {
		return nil, errors.Mark(err, model.ErrFetch)
	}
	return s.inner.FetchItems(ctx)
}

// Host returns the host part of rawURL, or rawURL itself when it does not parse.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

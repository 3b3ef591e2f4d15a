package retry

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/amishk599/jobscout/internal/model"
)

var _ model.FeedSource = (*RetrySource)(nil)

// RetrySource decorates a FeedSource, re-fetching the feed after transient
// failures with exponential backoff and jitter.
type RetrySource struct {
	inner      model.FeedSource
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetrySource wraps inner. maxRetries is the number of extra attempts after
// the first failure; baseDelay is the wait before the first of them and
// doubles for each one after.
func NewRetrySource(inner model.FeedSource, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetrySource {
	return &RetrySource{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// FetchItems fetches the feed, retrying transient failures. It stops early when
// the next wait would run past the context deadline.
func (f *RetrySource) FetchItems(ctx context.Context) ([]model.FeedItem, error) {
	for attempt := 0; ; attempt++ {
		items, err := f.inner.FetchItems(ctx)
		if err == nil {
			return items, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		if attempt >= f.maxRetries {
			return nil, errors.Wrapf(err, "feed fetch failed after %d attempts", attempt+1)
		}

		delay := f.backoffDelay(attempt+1, err)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			return nil, errors.Wrapf(err, "no time left to retry feed fetch (next attempt in %v)", delay.Round(time.Millisecond))
		}

		f.logger.Warn("feed fetch failed, retrying",
			"attempt", attempt+1,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Mark(errors.Wrap(ctx.Err(), "retry cancelled"), model.ErrFetch)
		case <-timer.C:
		}
	}
}

// backoffDelay returns baseDelay * 2^(retry-1) with ±30% jitter. A Retry-After
// sent with a 429 or 503 replaces the computed delay.
func (f *RetrySource) backoffDelay(retry int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := f.baseDelay << (retry - 1)
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether another fetch could succeed where err failed.
func isRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, model.ErrDecode):
		// the same document would fail to decode again
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return true
		}
		return httpErr.StatusCode >= 500
	}

	// network and DNS failures
	return true
}

package retry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/amishk599/jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSource calls a function on each invocation, tracking call count.
type mockSource struct {
	calls int
	fn    func(attempt int) ([]model.FeedItem, error)
}

func (m *mockSource) FetchItems(_ context.Context) ([]model.FeedItem, error) {
	m.calls++
	return m.fn(m.calls)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	items := []model.FeedItem{{Title: "Acme: Engineer", Link: "https://example.com/1"}}
	mock := &mockSource{fn: func(_ int) ([]model.FeedItem, error) {
		return items, nil
	}}

	rs := NewRetrySource(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rs.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Link != "https://example.com/1" {
		t.Fatalf("unexpected items: %v", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	items := []model.FeedItem{{Link: "https://example.com/1"}}
	mock := &mockSource{fn: func(attempt int) ([]model.FeedItem, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return items, nil
	}}

	rs := NewRetrySource(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rs.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.FeedItem, error) {
		return nil, &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}
	}}

	rs := NewRetrySource(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rs.FetchItems(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("expected HTTPError with status 404, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryDecodeErrors(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.FeedItem, error) {
		return nil, errors.Mark(errors.New("unexpected root element <html>"), model.ErrDecode)
	}}

	rs := NewRetrySource(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rs.FetchItems(context.Background())
	if !errors.Is(err, model.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.FeedItem, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rs := NewRetrySource(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rs.FetchItems(context.Background())
	if err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	rs := NewRetrySource(nil, 2, time.Hour, discardLogger())
	err := &model.HTTPError{StatusCode: 429, RetryAfter: 3 * time.Second}
	if got := rs.backoffDelay(1, err); got != 3*time.Second {
		t.Fatalf("backoffDelay = %v, want 3s", got)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.FeedItem, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel immediately so the backoff sleep is interrupted.
	cancel()

	rs := NewRetrySource(mock, 2, time.Second, discardLogger())
	_, err := rs.FetchItems(ctx)
	if err == nil {
		t.Fatal("expected error from context cancellation, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, model.ErrFetch) {
		t.Fatalf("expected cancellation to be marked ErrFetch, got %v", err)
	}
	// Should have made initial call, then been cancelled during backoff.
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestRetry_RetriesOnRequestTimeout(t *testing.T) {
	mock := &mockSource{fn: func(attempt int) ([]model.FeedItem, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 408, Err: errors.New("request timeout")}
		}
		return []model.FeedItem{{Title: "Acme: Go Engineer"}}, nil
	}}

	rs := NewRetrySource(mock, 2, 10*time.Millisecond, discardLogger())
	items, err := rs.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || mock.calls != 2 {
		t.Fatalf("items = %d, calls = %d, want 1 item after 2 calls", len(items), mock.calls)
	}
}

func TestRetry_StopsWhenDelayExceedsDeadline(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.FeedItem, error) {
		return nil, &model.HTTPError{StatusCode: 503, RetryAfter: time.Hour, Err: errors.New("unavailable")}
	}}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rs := NewRetrySource(mock, 2, 10*time.Millisecond, discardLogger())
	start := time.Now()
	_, err := rs.FetchItems(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("waited for a retry that could not finish before the deadline")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 503 {
		t.Fatalf("expected the 503 to be returned, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

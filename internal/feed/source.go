package feed

import (
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/amishk599/jobscout/internal/model"
)

const (
	// SourceName is stamped on every posting ingested from the feed.
	SourceName = "We Work Remotely"

	maxFeedBytes = 16 << 20
)

// HTTPSource fetches the feed document over HTTP and decodes its items.
type HTTPSource struct {
	url       string
	userAgent string
	client    *http.Client
}

// NewHTTPSource creates a source for the feed at url. Every request carries
// userAgent so the feed operator can identify the crawler.
func NewHTTPSource(url, userAgent string, client *http.Client) *HTTPSource {
	return &HTTPSource{
		url:       url,
		userAgent: userAgent,
		client:    client,
	}
}

// URL returns the feed address.
func (s *HTTPSource) URL() string { return s.url }

// FetchItems retrieves the feed and decodes it. Transport and status failures
// are marked model.ErrFetch, malformed documents model.ErrDecode.
func (s *HTTPSource) FetchItems(ctx context.Context) ([]model.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "feed fetch for %s", s.url), model.ErrFetch)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "feed fetch for %s", s.url), model.ErrFetch)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Mark(&model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        errors.Newf("feed fetch for %s: unexpected status %d", s.url, resp.StatusCode),
		}, model.ErrFetch)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "feed fetch for %s: reading body", s.url), model.ErrFetch)
	}

	items, err := Decode(body)
	if err != nil {
		return nil, errors.Wrapf(err, "feed fetch for %s", s.url)
	}
	return items, nil
}

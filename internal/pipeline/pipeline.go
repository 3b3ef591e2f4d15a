package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/amishk599/jobscout/internal/feed"
	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/normalize"
	"github.com/amishk599/jobscout/internal/store"
)

// DefaultFetchTimeout bounds a feed fetch when no timeout is configured.
const DefaultFetchTimeout = 30 * time.Second

// Result summarizes one ingestion run.
type Result struct {
	RunID    string        `json:"run_id"`
	Fetched  int           `json:"fetched"`
	Skipped  int           `json:"skipped"`
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Total    int           `json:"total"`
	Duration time.Duration `json:"-"`
}

// Pipeline owns one ingestion run:
// fetch → adapt → normalize → reconcile → save → notify.
type Pipeline struct {
	source       model.FeedSource
	store        model.PostingStore
	locations    *normalize.LocationNormalizer
	salaries     normalize.SalaryNormalizer
	filter       model.PostingFilter
	notifier     model.Notifier
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLocationNormalizer replaces the built-in location table.
func WithLocationNormalizer(n *normalize.LocationNormalizer) Option {
	return func(p *Pipeline) { p.locations = n }
}

// WithSalaryNormalizer sets the salary normalization rules.
func WithSalaryNormalizer(n normalize.SalaryNormalizer) Option {
	return func(p *Pipeline) { p.salaries = n }
}

// WithNotifier notifies newly created postings that pass filter. A nil
// filter notifies every new posting.
func WithNotifier(n model.Notifier, filter model.PostingFilter) Option {
	return func(p *Pipeline) {
		p.notifier = n
		p.filter = filter
	}
}

// WithFetchTimeout bounds the feed fetch, retries included.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.fetchTimeout = d
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline reading from source and persisting to st.
func New(source model.FeedSource, st model.PostingStore, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:       source,
		store:        st,
		locations:    normalize.NewLocationNormalizer(nil),
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs one ingestion run. A fetch or decode failure ends the run
// before the store is touched; the returned error is then marked
// model.ErrFetch or model.ErrDecode. Timestamps have whole-second
// precision, so a second run within the same second leaves last_seen_at
// unchanged.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", res.RunID)

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	items, err := p.source.FetchItems(fetchCtx)
	cancel()
	if err != nil {
		if !errors.Is(err, model.ErrFetch) && !errors.Is(err, model.ErrDecode) {
			err = errors.Mark(err, model.ErrFetch)
		}
		logger.Error("feed ingestion failed", "error", err)
		return res, errors.Wrap(err, "fetch feed")
	}
	res.Fetched = len(items)

	postings, err := p.store.Load(ctx)
	if err != nil {
		return res, errors.Wrap(err, "load postings")
	}

	now := p.now().UTC().Truncate(time.Second)
	var createdIdx []int

	for _, item := range items {
		draft := feed.Adapt(item)
		if draft.URL == "" {
			logger.Warn("skipping feed item without link", "title", draft.Title)
			res.Skipped++
			continue
		}

		location := p.locations.Normalize(draft.LocationRaw)
		salaryRaw := normalize.ExtractSalary(draft.Description)
		salary := p.salaries.Normalize(salaryRaw)

		if i, ok := store.FindByURL(postings, draft.URL); ok {
			existing := &postings[i]
			existing.Location = location
			existing.SalaryNormalized = salary
			existing.LastSeenAt = now
			if existing.LastSeenAt.Before(existing.CreatedAt) {
				// clock moved backwards since the posting was created
				existing.LastSeenAt = existing.CreatedAt
			}
			res.Updated++
			logger.Debug("updated posting", "url", draft.URL)
			continue
		}

		postings = append(postings, model.Posting{
			URL:              draft.URL,
			Title:            draft.Title,
			Company:          draft.Company,
			Location:         location,
			SalaryRaw:        salaryRaw,
			SalaryNormalized: salary,
			Description:      draft.Description,
			Source:           feed.SourceName,
			CreatedAt:        now,
			LastSeenAt:       now,
		})
		createdIdx = append(createdIdx, len(postings)-1)
		res.Created++
		logger.Debug("created posting", "url", draft.URL, "company", draft.Company, "title", draft.Title)
	}

	if err := p.store.Save(ctx, postings); err != nil {
		return res, errors.Wrap(err, "save postings")
	}
	res.Total = len(postings)

	p.notify(logger, postings, createdIdx)

	res.Duration = time.Since(start)
	logger.Info("ingestion run complete",
		"fetched", res.Fetched,
		"skipped", res.Skipped,
		"created", res.Created,
		"updated", res.Updated,
		"total", res.Total,
		"duration", res.Duration.Round(time.Millisecond).String(),
	)
	return res, nil
}

// notify sends the postings created by this run. Postings are already
// persisted, so failures are only logged.
func (p *Pipeline) notify(logger *slog.Logger, postings []model.Posting, createdIdx []int) {
	if p.notifier == nil || len(createdIdx) == 0 {
		return
	}

	var matched []model.Posting
	for _, i := range createdIdx {
		if p.filter == nil || p.filter.Match(postings[i]) {
			matched = append(matched, postings[i])
		}
	}
	if len(matched) == 0 {
		return
	}

	if err := p.notifier.Notify(matched); err != nil {
		logger.Error("notification failed", "count", len(matched), "error", err)
	}
}

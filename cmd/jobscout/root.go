package main

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/feed"
	"github.com/amishk599/jobscout/internal/filter"
	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/normalize"
	"github.com/amishk599/jobscout/internal/notifier"
	"github.com/amishk599/jobscout/internal/pipeline"
	"github.com/amishk599/jobscout/internal/ratelimit"
	"github.com/amishk599/jobscout/internal/retry"
	"github.com/amishk599/jobscout/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Remote job feed ingester",
	Long:  "jobscout ingests the We Work Remotely programming feed into a deduplicated, normalized posting collection.",
	// Default to `run` so that `jobscout` with no args performs one ingestion run.
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml".
// A missing ./config.yaml yields the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}

	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func setupFilter(cfg *config.Config) model.PostingFilter {
	return filter.NewTitleAndLocationFilter(
		cfg.Filters.TitleKeywords,
		cfg.Filters.TitleExcludeKeywords,
		cfg.Filters.Locations,
		cfg.Filters.ExcludeLocations,
	)
}

// buildSource chains the feed decorators: rate limiting around retries
// around the HTTP fetch, so one run waits for the limiter once.
func buildSource(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.FeedSource {
	var src model.FeedSource = feed.NewHTTPSource(cfg.Feed.URL, cfg.Feed.UserAgent, httpClient)
	src = retry.NewRetrySource(src, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)

	limiter := ratelimit.NewHostRateLimiter(cfg.RateLimit.MinDelay)
	logger.Debug("rate limiter configured", "min_delay", cfg.RateLimit.MinDelay.String())
	return ratelimit.NewRateLimitedSource(src, limiter, ratelimit.Host(cfg.Feed.URL))
}

// buildStore opens the configured backend. The returned close func is never nil.
func buildStore(cfg *config.Config, dryRun bool, logger *slog.Logger) (model.PostingStore, func() error, error) {
	var (
		st      model.PostingStore
		closeFn = func() error { return nil }
	)

	switch cfg.Store.Backend {
	case "sqlite":
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open store %s", cfg.Store.Path)
		}
		st, closeFn = sqlStore, sqlStore.Close
	default:
		st = store.NewJSONFileStore(cfg.Store.Path, logger)
	}

	if dryRun {
		logger.Info("dry-run mode enabled, the posting collection will not be written")
		st = store.NewDryRunStore(st)
	}
	return st, closeFn, nil
}

func buildPipeline(cfg *config.Config, st model.PostingStore, httpClient *http.Client, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(
		buildSource(cfg, httpClient, logger),
		st,
		logger,
		pipeline.WithFetchTimeout(cfg.Feed.FetchTimeout),
		pipeline.WithLocationNormalizer(normalize.NewLocationNormalizer(cfg.Locations.Aliases)),
		pipeline.WithSalaryNormalizer(normalize.SalaryNormalizer{ExpandThousands: cfg.Salary.ExpandThousands}),
		pipeline.WithNotifier(setupNotifier(cfg, httpClient, logger), setupFilter(cfg)),
	)
}

func logConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("config loaded",
		"feed", cfg.Feed.URL,
		"store", cfg.Store.Backend,
		"path", cfg.Store.Path,
		"interval", cfg.PollingInterval.String(),
		"fetch_timeout", cfg.Feed.FetchTimeout.String(),
	)
}

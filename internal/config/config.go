package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobscout.
type Config struct {
	PollingInterval time.Duration
	Feed            FeedConfig
	Store           StoreConfig
	Salary          SalaryConfig
	Locations       LocationConfig
	Filters         FilterConfig
	Notification    NotificationConfig
	Retry           RetryConfig
	RateLimit       RateLimitConfig
	Server          ServerConfig
}

// FeedConfig describes the feed to ingest.
type FeedConfig struct {
	URL          string
	UserAgent    string
	FetchTimeout time.Duration // bounds a single fetch, retries included
}

// StoreConfig selects where the posting collection is persisted.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
	Path    string `yaml:"path"`
}

// SalaryConfig tunes salary normalization.
type SalaryConfig struct {
	// ExpandThousands makes "$45,000" normalize to 45000 instead of 45.
	ExpandThousands bool `yaml:"expand_thousands"`
}

// LocationConfig extends the built-in location canonicalization table.
type LocationConfig struct {
	Aliases map[string]string `yaml:"aliases"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// FilterConfig decides which newly created postings are notified.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
}

// RetryConfig controls retries of transient feed fetch failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RateLimitConfig controls the minimum gap between fetches to the feed host.
type RateLimitConfig struct {
	MinDelay time.Duration
}

// ServerConfig configures the trigger endpoint.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	DefaultFeedURL   = "https://weworkremotely.com/categories/remote-programming-jobs.rss"
	DefaultUserAgent = "jobscout/1.0 (+https://github.com/amishk599/jobscout)"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	PollingInterval string             `yaml:"polling_interval"`
	Feed            rawFeedConfig      `yaml:"feed"`
	Store           StoreConfig        `yaml:"store"`
	Salary          SalaryConfig       `yaml:"salary"`
	Locations       LocationConfig     `yaml:"locations"`
	Filters         FilterConfig       `yaml:"filters"`
	Notification    NotificationConfig `yaml:"notification"`
	Retry           rawRetryConfig     `yaml:"retry"`
	RateLimit       rawRateLimitConfig `yaml:"rate_limit"`
	Server          ServerConfig       `yaml:"server"`
}

type rawFeedConfig struct {
	URL          string `yaml:"url"`
	UserAgent    string `yaml:"user_agent"`
	FetchTimeout string `yaml:"fetch_timeout"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		// the zero document always validates
		panic(err)
	}
	return cfg
}

// Parse expands environment variables in data, decodes it, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	interval, err := parseDuration("polling_interval", raw.PollingInterval, time.Hour)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("feed.fetch_timeout", raw.Feed.FetchTimeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	baseDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, 5*time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, 10*time.Second)
	if err != nil {
		return nil, err
	}

	maxRetries := 2
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	cfg := &Config{
		PollingInterval: interval,
		Feed: FeedConfig{
			URL:          withDefault(raw.Feed.URL, DefaultFeedURL),
			UserAgent:    withDefault(raw.Feed.UserAgent, DefaultUserAgent),
			FetchTimeout: fetchTimeout,
		},
		Store: StoreConfig{
			Backend: strings.ToLower(withDefault(raw.Store.Backend, "json")),
			Path:    raw.Store.Path,
		},
		Salary:       raw.Salary,
		Locations:    raw.Locations,
		Filters:      raw.Filters,
		Notification: raw.Notification,
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		RateLimit: RateLimitConfig{MinDelay: minDelay},
		Server: ServerConfig{
			Addr: withDefault(raw.Server.Addr, "127.0.0.1:8080"),
		},
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "jobs.json"
		if cfg.Store.Backend == "sqlite" {
			cfg.Store.Path = "jobs.db"
		}
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s %q", field, value)
	}
	return d, nil
}

func withDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func validate(cfg *Config) error {
	if cfg.PollingInterval <= 0 {
		return errors.Newf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.Feed.FetchTimeout <= 0 {
		return errors.Newf("feed.fetch_timeout must be positive, got %v", cfg.Feed.FetchTimeout)
	}
	if !strings.HasPrefix(cfg.Feed.URL, "https://") && !strings.HasPrefix(cfg.Feed.URL, "http://") {
		return errors.Newf("feed.url must be an http(s) URL, got %q", cfg.Feed.URL)
	}

	switch cfg.Store.Backend {
	case "json", "sqlite":
	default:
		return errors.Newf("store.backend must be \"json\" or \"sqlite\", got %q", cfg.Store.Backend)
	}

	if cfg.Retry.MaxRetries < 0 {
		return errors.Newf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay < 0 {
		return errors.Newf("retry.base_delay must not be negative, got %v", cfg.Retry.BaseDelay)
	}
	if cfg.RateLimit.MinDelay < 0 {
		return errors.Newf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}

	for raw, canonical := range cfg.Locations.Aliases {
		if strings.TrimSpace(canonical) == "" {
			return errors.Newf("locations.aliases[%q] must not be empty", raw)
		}
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return errors.New("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return errors.New("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return errors.Newf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}

package model

import (
	"context"
	"time"
)

// Posting is one persisted job record, keyed by its URL.
type Posting struct {
	URL              string       `json:"url"`
	Title            string       `json:"title"`
	Company          string       `json:"company"`
	Location         string       `json:"location"`
	SalaryRaw        string       `json:"salary_raw"`
	SalaryNormalized *SalaryRange `json:"salary_normalized"`
	Description      string       `json:"description"`
	Source           string       `json:"source"`
	CreatedAt        time.Time    `json:"created_at"`   // set once, first observation
	LastSeenAt       time.Time    `json:"last_seen_at"` // updated on every observation
}

// SalaryRange is a salary in implied currency units. Min == Max when the
// source text carried a single amount.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FeedItem holds the decoded text of one feed <item>. Missing elements are
// empty strings.
type FeedItem struct {
	Title       string
	Region      string
	Link        string
	Description string
}

// Draft is a feed item mapped onto posting fields, before normalization and
// reconciliation.
type Draft struct {
	URL         string
	Title       string
	Company     string
	LocationRaw string
	Description string
}

// FeedSource fetches and decodes the items of a feed.
type FeedSource interface {
	FetchItems(ctx context.Context) ([]FeedItem, error)
}

// PostingStore loads and persists the whole posting collection.
type PostingStore interface {
	Load(ctx context.Context) ([]Posting, error)
	Save(ctx context.Context, postings []Posting) error
}

// Notifier sends notifications for newly created postings.
type Notifier interface {
	Notify(postings []Posting) error
}

// PostingFilter decides whether a posting is worth a notification.
type PostingFilter interface {
	Match(p Posting) bool
}

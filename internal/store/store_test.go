package store

import (
	"io"
	"log/slog"
	"time"

	"github.com/amishk599/jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func samplePostings() []model.Posting {
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	seen := time.Date(2026, 10, 2, 9, 30, 0, 0, time.UTC)
	return []model.Posting{
		{
			URL:              "https://example.com/b",
			Title:            "Backend Engineer",
			Company:          "Acme Corp",
			Location:         "Worldwide",
			SalaryRaw:        "$100k - $120k",
			SalaryNormalized: &model.SalaryRange{Min: 100000, Max: 120000},
			Description:      "<p>Build things.</p>",
			Source:           "We Work Remotely",
			CreatedAt:        created,
			LastSeenAt:       seen,
		},
		{
			URL:         "https://example.com/a",
			Title:       "Frontend Developer",
			Company:     "Unknown",
			Location:    "Remote",
			Description: "no salary",
			Source:      "We Work Remotely",
			CreatedAt:   seen,
			LastSeenAt:  seen,
		},
	}
}

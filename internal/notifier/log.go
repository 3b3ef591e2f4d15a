package notifier

import (
	"log/slog"

	"github.com/amishk599/jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new postings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting with company, title, location, salary and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(postings []model.Posting) error {
	for _, p := range postings {
		args := []any{"company", p.Company, "title", p.Title, "location", p.Location, "url", p.URL}
		if p.SalaryNormalized != nil {
			args = append(args, "salary_min", p.SalaryNormalized.Min, "salary_max", p.SalaryNormalized.Max)
		}
		n.logger.Info("new posting", args...)
	}
	return nil
}

package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/amishk599/jobscout/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends posting alerts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration // between consecutive messages
}

// NewSlackNotifier returns a notifier that posts each posting to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      500 * time.Millisecond,
	}
}

// Notify sends each posting as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	failures := 0
	for i, p := range postings {
		if i > 0 {
			time.Sleep(s.pause)
		}

		if err := s.sendMessage(p); err != nil {
			s.logger.Error("slack notification failed", "company", p.Company, "title", p.Title, "error", err)
			failures++
		}
	}

	sent := len(postings) - failures
	if failures == len(postings) {
		return errors.Newf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(p model.Posting) error {
	body, err := json.Marshal(buildPayload(p))
	if err != nil {
		return errors.Wrap(err, "marshal slack payload")
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "post to slack")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(err, "post to slack (retry)")
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return errors.Newf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack message sent", "company", p.Company, "title", p.Title, "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent", "company", p.Company, "title", p.Title)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a dummy posting notification to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	now := time.Now().UTC()
	test := model.Posting{
		URL:              "https://weworkremotely.com/remote-jobs/search",
		Title:            "Test Notification - Integration Verified",
		Company:          "jobscout",
		Location:         "Worldwide",
		SalaryRaw:        "$100k - $120k",
		SalaryNormalized: &model.SalaryRange{Min: 100000, Max: 120000},
		Source:           "test",
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	return n.Notify([]model.Posting{test})
}

func formatSalary(p model.Posting) string {
	if p.SalaryNormalized == nil {
		if p.SalaryRaw != "" {
			return p.SalaryRaw
		}
		return "Not listed"
	}
	if p.SalaryNormalized.Min == p.SalaryNormalized.Max {
		return fmt.Sprintf("%d", p.SalaryNormalized.Min)
	}
	return fmt.Sprintf("%d – %d", p.SalaryNormalized.Min, p.SalaryNormalized.Max)
}

func buildPayload(p model.Posting) slackPayload {
	firstSeen := "Just detected"
	if !p.CreatedAt.IsZero() {
		firstSeen = p.CreatedAt.UTC().Format(time.RFC1123)
	}

	return slackPayload{Blocks: []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🆕 " + p.Company + ": " + p.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + p.Company},
				{Type: "mrkdwn", Text: "*Location:*\n" + p.Location},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Salary:*\n" + formatSalary(p)},
				{Type: "mrkdwn", Text: "*First seen:*\n" + firstSeen},
			},
		},
		{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "View Posting"},
					URL:   p.URL,
					Style: "primary",
				},
			},
		},
		{Type: "divider"},
	}}
}

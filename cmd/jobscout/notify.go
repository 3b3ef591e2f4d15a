package main

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/notifier"
)

var (
	notifyLimit int
	notifyAll   bool
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send postings through the configured notifier",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a sample posting",
	Long:  "Sends a sample posting through the configured notifier to check the webhook and message layout.",
	Args:  cobra.NoArgs,
	RunE:  runNotifyTest,
}

var notifyLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Re-send the newest stored postings",
	Long: "Loads the posting collection and sends the most recently created postings that pass the " +
		"notification filters. Nothing is fetched and the collection is not written.",
	Args: cobra.NoArgs,
	RunE: runNotifyLatest,
}

func init() {
	notifyLatestCmd.Flags().IntVarP(&notifyLimit, "limit", "n", 5, "maximum number of postings to send")
	notifyLatestCmd.Flags().BoolVar(&notifyAll, "all", false, "ignore the notification filters")

	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd, notifyLatestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	n := setupNotifier(cfg, newHTTPClient(), logger)
	if err := notifier.SendTestMessage(n); err != nil {
		return errors.Wrap(err, "send test notification")
	}
	logger.Info("test notification sent", "type", cfg.Notification.Type)
	return nil
}

func runNotifyLatest(cmd *cobra.Command, args []string) error {
	if notifyLimit < 1 {
		return errors.Newf("--limit must be at least 1, got %d", notifyLimit)
	}
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	st, closeStore, err := buildStore(cfg, false, logger)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer closeStore()

	postings, err := st.Load(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "load postings")
	}

	var f model.PostingFilter
	if !notifyAll {
		f = setupFilter(cfg)
	}
	selected := latestPostings(postings, f, notifyLimit)
	if len(selected) == 0 {
		logger.Info("no stored postings to send", "stored", len(postings))
		return nil
	}

	n := setupNotifier(cfg, newHTTPClient(), logger)
	if err := n.Notify(selected); err != nil {
		return errors.Wrap(err, "send postings")
	}
	logger.Info("sent stored postings", "count", len(selected), "stored", len(postings))
	return nil
}

// latestPostings returns up to limit postings passing f, newest created
// first. A nil filter passes everything.
func latestPostings(postings []model.Posting, f model.PostingFilter, limit int) []model.Posting {
	var out []model.Posting
	for _, p := range postings {
		if f == nil || f.Match(p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Posting) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

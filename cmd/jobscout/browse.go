package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/browse"
	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/model"
)

var browseRefresh bool

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored postings interactively (TUI)",
	Long:  "Shows the company picker TUI, then launches the split-pane posting view.",
	RunE:  runBrowseCmd,
}

func init() {
	browseCmd.Flags().BoolVar(&browseRefresh, "refresh", false, "run one ingestion pass before browsing")
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Log output before the alt-screen starts corrupts the display.
	silent := discardLogger()

	st, closeStore, err := buildStore(cfg, false, silent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if browseRefresh {
		p := buildPipeline(cfg, st, newHTTPClient(), silent)
		res, err := browse.RunLoader("Fetching "+cfg.Feed.URL, p.Run)
		if err != nil {
			fmt.Printf("Refresh failed: %v\n", err)
		} else {
			fmt.Printf("Refreshed: %d new, %d updated, %d total\n", res.Created, res.Updated, res.Total)
		}
	}

	postings, err := st.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load postings: %v\n", err)
		closeStore()
		os.Exit(1)
	}
	if len(postings) == 0 {
		fmt.Println("No postings stored yet. Run `jobscout run` or `jobscout browse --refresh` first.")
		return nil
	}

	runBrowse(cfg, postings)
	return nil
}

func runBrowse(cfg *config.Config, postings []model.Posting) {
	postingFilter := setupFilter(cfg)
	companies := browse.Companies(postings)

	for {
		choice, err := browse.RunCompanyPicker(companies)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if choice < 0 {
			return
		}

		all := browse.ByCompany(postings, companies[choice].Name)
		var matched []model.Posting
		for _, p := range all {
			if postingFilter.Match(p) {
				matched = append(matched, p)
			}
		}

		wantQuit, err := browse.RunBrowseTUI(all, matched)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return
		}
		// else: loop → back to picker
	}
}

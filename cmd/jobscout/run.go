package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion pass and exit",
	Long:  "Fetches the feed once, reconciles it into the posting collection, saves it and notifies new postings.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the pipeline without writing the posting collection")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logConfig(cfg, logger)

	st, closeStore, err := buildStore(cfg, dryRun, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := buildPipeline(cfg, st, newHTTPClient(), logger)
	if _, err := p.Run(ctx); err != nil {
		logger.Error("ingestion run failed", "error", err)
		closeStore()
		os.Exit(1)
	}
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobscout/internal/pipeline"
	"github.com/amishk599/jobscout/internal/scheduler"
	"github.com/amishk599/jobscout/internal/trigger"
)

var startWithServer bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingestion daemon",
	Long:  "Runs one ingestion pass immediately, then one every polling_interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	startCmd.Flags().BoolVar(&startWithServer, "serve", false, "also serve the trigger endpoint on server.addr")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logConfig(cfg, logger)

	st, closeStore, err := buildStore(cfg, false, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	runner := pipeline.NewRunner(buildPipeline(cfg, st, newHTTPClient(), logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.NewScheduler(runner, cfg.PollingInterval, logger).Run(gctx)
	})
	if startWithServer {
		g.Go(func() error {
			return trigger.NewServer(runner, logger).ListenAndServe(gctx, cfg.Server.Addr)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("daemon error", "error", err)
		closeStore()
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/pipeline"
	"github.com/amishk599/jobscout/internal/trigger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP trigger endpoint",
	Long:  "Serves POST /run, which performs one ingestion pass per request. Concurrent requests share a single run.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logConfig(cfg, logger)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	st, closeStore, err := buildStore(cfg, false, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	runner := pipeline.NewRunner(buildPipeline(cfg, st, newHTTPClient(), logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := trigger.NewServer(runner, logger).ListenAndServe(ctx, addr); err != nil {
		logger.Error("trigger server error", "error", err)
		closeStore()
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

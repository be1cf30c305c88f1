package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/coach-ledger/internal/app"
	"github.com/riskibarqy/coach-ledger/internal/config"
	"github.com/riskibarqy/coach-ledger/internal/interfaces/cli"
	"github.com/riskibarqy/coach-ledger/internal/observability"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName+"-ingest", "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() { _ = stores.Close() }()

	services := app.NewServices(cfg, stores, nil, logger)
	root := cli.NewRootCmd(cli.Deps{
		Ingestion: services.Ingestion,
		Scraper:   app.NewScraper(cfg, logger),
		Logger:    logger,
		Schedule:  cfg.IngestSchedule,
	})
	return root.ExecuteContext(ctx)
}

package main

import (
	"context"
	"errors"
	"os"

	"budgetdash/internal/amqp"
	"budgetdash/internal/cache"
	"budgetdash/internal/cli"
	"budgetdash/internal/datasource"
	"budgetdash/internal/datasource/remote"
	applog "budgetdash/internal/log"
	"budgetdash/internal/services"
	"budgetdash/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	logger.Info("Starting report-worker", applog.FieldOperation, applog.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by the report worker")
		os.Exit(1)
	}

	// Analytics come from a running data service when DATA_SERVICE_URL is
	// set, otherwise straight from the configured store.
	var source datasource.AnalyticsSource
	if cfg.DataServiceURL != "" {
		source = cache.NewSource(remote.NewWithBaseURL(cfg.DataServiceURL), cfg.AnalyticsCacheTTL)
		logger.Info("Using remote data service",
			applog.FieldTarget, cfg.DataServiceURL,
			"cache_ttl", cfg.AnalyticsCacheTTL)
	} else {
		store, err := cli.OpenStore(cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize data backend", applog.FieldError, err)
			os.Exit(1)
		}
		defer store.Close()
		source = services.NewAnalyticsService(store)
	}

	sheetsClient, err := cli.OpenSheets(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	var publisher worker.TablePublisher
	if sheetsClient != nil {
		publisher = sheetsClient
		logger.Info("Google Sheets publishing enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(services.NewReportService(source, nil), cfg.ExportDir, publisher)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	go func() {
		err := amqpClient.ConsumeReportExports(ctx, exportWorker.HandleExportMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}()

	logger.Info("Report worker consuming exports",
		"queue", cfg.AMQPQueue,
		"export_dir", cfg.ExportDir)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}

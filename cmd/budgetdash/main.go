package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"budgetdash/internal/amqp"
	"budgetdash/internal/cli"
	apphttp "budgetdash/internal/http"
	applog "budgetdash/internal/log"
	"budgetdash/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	store, err := cli.OpenStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	// The export queue is optional: without a broker the server still serves
	// every report synchronously and answers export requests with 503.
	var publisher services.ExportPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, report exports disabled", applog.FieldError, err)
		} else {
			publisher = amqpClient
		}
	}

	analytics := services.NewAnalyticsService(store)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Imports:            services.NewImportService(store, nil),
		Budgets:            services.NewBudgetService(store),
		Analytics:          analytics,
		Reports:            services.NewReportService(analytics, publisher),
		Ready:              store.Ready,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if amqpClient != nil {
			amqpClient.Close()
		}
	})

	logger.Info("Starting budgetdash server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend,
		"exports_enabled", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

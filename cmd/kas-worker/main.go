package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kas/internal/amqp"
	"kas/internal/backend"
	"kas/internal/config"
	"kas/internal/ledger"
	applog "kas/internal/log"
	"kas/internal/messenger"
	"kas/internal/services"
	"kas/internal/sheets"
	"kas/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting kas-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresDSN:  cfg.PostgresDSN,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Reports are archived to a spreadsheet when one is configured,
	// otherwise to the database.
	var archiver ledger.ReportArchiver = result.Backend
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		archiver = sheetsClient
		logger.Info("Google Sheets archive enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	var sender messenger.Sender
	if cfg.WhatsAppGatewayURL != "" {
		sender = messenger.NewWebhookSender(cfg.WhatsAppGatewayURL, cfg.WhatsAppGatewayAuth)
		logger.Info("WhatsApp gateway enabled", "url", cfg.WhatsAppGatewayURL)
	} else {
		sender = messenger.NewLogSender()
		logger.Info("No WhatsApp gateway configured, logging messages instead")
	}

	reportSvc := services.NewReportService(
		result.Backend, result.Backend, result.Backend, archiver,
		cfg.MoneyFormat(), cfg.Labels(),
		cfg.OrganizationName, cfg.OrganizationLocation,
	)

	notifyWorker := worker.NewNotifyWorker(reportSvc, sender, cfg.WhatsAppRecipient)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeMessages(gctx,
			notifyWorker.HandleTransactionCreated,
			notifyWorker.HandleReportRequested)
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shafakhana/clinic-intake/internal/api/router"
	appconfig "github.com/shafakhana/clinic-intake/internal/config"
	"github.com/shafakhana/clinic-intake/internal/intake"
	"github.com/shafakhana/clinic-intake/internal/notify"
	"github.com/shafakhana/clinic-intake/internal/observability/metrics"
	"github.com/shafakhana/clinic-intake/internal/sheets"
	"github.com/shafakhana/clinic-intake/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-intake API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"sink", cfg.SinkProvider,
		"persistence_mode", cfg.PersistenceMode,
	)

	// Build the sink. A missing or broken sink configuration still lets
	// the server start: every submission then fails with the generic
	// configuration-error outcome until the operator fixes it.
	var sink intake.Sink
	switch {
	case cfg.SinkProvider == "memory":
		sink = intake.NewMemorySink()
		logger.Warn("using in-memory sink, submissions are not durable")
	case cfg.SinkConfigured():
		s, err := sheets.New(context.Background(), sheets.Config{
			SpreadsheetID:   cfg.SheetID,
			CredentialsJSON: []byte(cfg.CredentialsJSON),
			SheetTitle:      cfg.SheetTitle,
		})
		if err != nil {
			logger.Error("failed to initialize sheets sink", "error", err)
		} else {
			sink = s.WithLogger(logger)
		}
	default:
		logger.Error("sheets sink configuration missing (GOOGLE_SHEET_ID / GOOGLE_SERVICE_ACCOUNT_CREDENTIALS)")
	}

	intakeMetrics := metrics.NewIntakeMetrics(nil)

	var notifier intake.Notifier
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender != nil {
		if n := notify.NewSubmissionNotifier(sender, cfg.NotifyEmail, logger); n != nil {
			notifier = n
		}
	}

	service := intake.NewService(intake.ServiceConfig{
		Sink:        sink,
		Mode:        intake.ParsePersistenceMode(cfg.PersistenceMode),
		Messages:    intake.DefaultMessages(),
		Location:    cfg.Location(),
		SinkTimeout: cfg.SinkTimeout,
		Logger:      logger,
		Metrics:     intakeMetrics,
		Notifier:    notifier,
	})

	intakeHandler := intake.NewHandler(service, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intakeHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

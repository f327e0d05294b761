package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	appconfig "github.com/ayursutra/panchakarma-platform/internal/config"
	"github.com/ayursutra/panchakarma-platform/internal/notifications"
	"github.com/ayursutra/panchakarma-platform/internal/observability/metrics"
	"github.com/ayursutra/panchakarma-platform/internal/telephony"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting notification worker", "env", cfg.Env,
		"poll_interval", cfg.ReminderPollInterval.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database pool init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	var dialer notifications.Dialer
	twilioClient, err := telephony.New(telephony.Config{
		BaseURL:    cfg.TwilioBaseURL,
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
		Logger:     logger.Named("telephony").Logger,
	})
	if err != nil {
		logger.Warn("telephony relay not configured, reminders will be marked failed", "error", err)
	} else {
		dialer = twilioClient
	}

	registry := prometheus.NewRegistry()
	platformMetrics := metrics.NewPlatformMetrics(registry)

	store := notifications.NewStore(pool)
	sender := notifications.NewService(dialer, store, platformMetrics,
		logger.Named("notifications"), cfg.PublicBaseURL, cfg.ReminderOffset)
	worker := notifications.NewWorker(store, sender, platformMetrics, logger.Named("worker"))

	worker.Run(ctx, cfg.ReminderPollInterval)
	logger.Info("notification worker stopped")
}

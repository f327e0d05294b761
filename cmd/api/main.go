package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ayursutra/panchakarma-platform/internal/api/router"
	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/auth"
	"github.com/ayursutra/panchakarma-platform/internal/centers"
	appconfig "github.com/ayursutra/panchakarma-platform/internal/config"
	"github.com/ayursutra/panchakarma-platform/internal/feedback"
	"github.com/ayursutra/panchakarma-platform/internal/http/handlers"
	"github.com/ayursutra/panchakarma-platform/internal/incidents"
	"github.com/ayursutra/panchakarma-platform/internal/inventory"
	"github.com/ayursutra/panchakarma-platform/internal/notifications"
	"github.com/ayursutra/panchakarma-platform/internal/notify"
	"github.com/ayursutra/panchakarma-platform/internal/observability/metrics"
	"github.com/ayursutra/panchakarma-platform/internal/reports"
	"github.com/ayursutra/panchakarma-platform/internal/scheduling"
	"github.com/ayursutra/panchakarma-platform/internal/telephony"
	"github.com/ayursutra/panchakarma-platform/internal/users"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting ayursutra API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()

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

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, live feed disabled", "error", err)
			redisClient = nil
		}
	}

	registry := prometheus.NewRegistry()
	platformMetrics := metrics.NewPlatformMetrics(registry)

	// Stores.
	apptStore := appointments.NewStore(pool)
	userStore := users.NewStore(pool)
	centerStore := centers.NewStore(pool)
	notifStore := notifications.NewStore(pool)
	feedbackStore := feedback.NewStore(pool)
	incidentStore := incidents.NewStore(pool)
	inventoryStore := inventory.NewStore(pool)

	// Telephony relay. A missing Twilio config keeps the API serving; SMS
	// dispatch degrades to audit-only failures.
	var dialer notifications.Dialer
	twilioClient, err := telephony.New(telephony.Config{
		BaseURL:    cfg.TwilioBaseURL,
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
		Logger:     logger.Named("telephony").Logger,
	})
	if err != nil {
		logger.Warn("telephony relay not configured", "error", err)
	} else {
		dialer = twilioClient
	}

	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger.Named("notify"))
	notifySvc := notify.NewService(wrapSender(emailSender), splitList(cfg.AdminAlertEmails), logger.Named("notify"))

	notifSvc := notifications.NewService(dialer, notifStore, platformMetrics,
		logger.Named("notifications"), cfg.PublicBaseURL, cfg.ReminderOffset)
	scheduler := scheduling.NewService(pool, apptStore, notifSvc, platformMetrics, logger.Named("scheduling"))
	incidentSvc := incidents.NewService(incidentStore, apptStore, logger.Named("incidents"))
	inventorySvc := inventory.NewService(inventoryStore, notifySvc, logger.Named("inventory"))

	liveFeed := feedback.NewLiveFeed(redisClient, int64(cfg.LiveFeedSize))
	hub := feedback.NewHub(logger.Named("feedback"))
	feedbackSvc := feedback.NewService(feedbackStore, liveFeed, hub, logger.Named("feedback"))

	sessions := auth.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	pdfSvc := reports.NewPDFService()

	r := router.New(&router.Config{
		Logger:           logger,
		AuthHandler:      handlers.NewAuthHandler(userStore, sessions, logger),
		CatalogHandler:   handlers.NewCatalogHandler(),
		CentersHandler:   handlers.NewCentersHandler(centerStore, logger),
		BookingHandler:   handlers.NewBookingHandler(scheduler, apptStore, centerStore, userStore, incidentSvc, notifySvc, logger),
		FeedbackHandler:  handlers.NewFeedbackHandler(feedbackSvc, hub, userStore, logger),
		RelayHandler:     handlers.NewRelayHandler(notifSvc, logger),
		InventoryHandler: handlers.NewInventoryHandler(inventorySvc, logger),
		DashboardHandler: handlers.NewDashboardHandler(scheduler, notifStore, logger),
		ReportsHandler: handlers.NewReportsHandler(pdfSvc, apptStore, feedbackStore,
			userStore, scheduler, inventorySvc, logger),
		Sessions:           sessions,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: splitList(cfg.CORSAllowedOrigins),
		RelayRatePerSec:    cfg.RelayRatePerSec,
		RelayBurst:         cfg.RelayBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// wrapSender keeps the interface value nil when the concrete sender is nil.
func wrapSender(s *notify.SendGridSender) notify.EmailSender {
	if s == nil {
		return nil
	}
	return s
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

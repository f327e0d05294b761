package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayursutra/panchakarma-platform/internal/auth"
	"github.com/ayursutra/panchakarma-platform/internal/http/handlers"
	httpmiddleware "github.com/ayursutra/panchakarma-platform/internal/http/middleware"
	"github.com/ayursutra/panchakarma-platform/internal/users"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	AuthHandler      *handlers.AuthHandler
	CatalogHandler   *handlers.CatalogHandler
	CentersHandler   *handlers.CentersHandler
	BookingHandler   *handlers.BookingHandler
	FeedbackHandler  *handlers.FeedbackHandler
	RelayHandler     *handlers.RelayHandler
	InventoryHandler *handlers.InventoryHandler
	DashboardHandler *handlers.DashboardHandler
	ReportsHandler   *handlers.ReportsHandler

	Sessions       *auth.Manager
	MetricsHandler http.Handler

	CORSAllowedOrigins []string
	RelayRatePerSec    float64
	RelayBurst         int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.Sessions != nil {
		r.Use(httpmiddleware.Session(cfg.Sessions, cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Public browsing and auth.
		api.Post("/auth/register", cfg.AuthHandler.Register)
		api.Post("/auth/login", cfg.AuthHandler.Login)
		api.Get("/therapies", cfg.CatalogHandler.ListTherapies)
		api.Get("/therapies/{therapyID}", cfg.CatalogHandler.GetTherapy)
		api.Get("/centers", cfg.CentersHandler.List)

		// Voice callback fetched by the telephony provider.
		api.Get("/voice-response", cfg.RelayHandler.VoiceResponse)

		// Relay endpoints, rate limited: they hit a paid provider.
		relayLimit := httpmiddleware.RateLimit(cfg.RelayRatePerSec, cfg.RelayBurst)
		api.With(relayLimit).Post("/send-sms", cfg.RelayHandler.SendSMS)
		api.With(relayLimit).Post("/make-call", cfg.RelayHandler.MakeCall)

		// Signed-in patients.
		api.Group(func(patient chi.Router) {
			patient.Use(httpmiddleware.RequireRole(users.RolePatient, users.RolePractitioner, users.RoleAdmin))
			patient.Get("/auth/profile", cfg.AuthHandler.Profile)
			patient.Put("/auth/profile", cfg.AuthHandler.UpdateProfile)
			patient.Post("/appointments", cfg.BookingHandler.Book)
			patient.Get("/appointments/mine", cfg.BookingHandler.ListMine)
			patient.Get("/availability/{roomID}/{date}", cfg.BookingHandler.Availability)
			patient.Post("/feedback", cfg.FeedbackHandler.Submit)
			patient.Get("/feedback/mine", cfg.FeedbackHandler.History)
			patient.Get("/reports/receipt/{appointmentID}", cfg.ReportsHandler.Receipt)
			patient.Get("/reports/medical", cfg.ReportsHandler.Medical)
		})

		// Practitioner surfaces.
		api.Group(func(practitioner chi.Router) {
			practitioner.Use(httpmiddleware.RequireRole(users.RolePractitioner, users.RoleAdmin))
			practitioner.Get("/appointments/date/{date}", cfg.BookingHandler.ListByDate)
			practitioner.Put("/appointments/{appointmentID}/status", cfg.BookingHandler.UpdateStatus)
			practitioner.Post("/appointments/{appointmentID}/reaction", cfg.BookingHandler.ReportReaction)
			practitioner.Get("/feedback/live", cfg.FeedbackHandler.Live)
			practitioner.Get("/feedback/stream", cfg.FeedbackHandler.Stream)
		})

		// Admin surfaces.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireRole(users.RoleAdmin))
			admin.Post("/centers", cfg.CentersHandler.Register)
			admin.Get("/inventory", cfg.InventoryHandler.List)
			admin.Post("/inventory", cfg.InventoryHandler.Add)
			admin.Post("/inventory/{itemID}/consume", cfg.InventoryHandler.Consume)
			admin.Post("/inventory/{itemID}/restock", cfg.InventoryHandler.Restock)
			admin.Get("/occupancy/{date}", cfg.DashboardHandler.Occupancy)
			admin.Get("/sms-logs", cfg.DashboardHandler.DispatchLogs)
			admin.Get("/reports/system/{date}", cfg.ReportsHandler.System)
		})
	})

	return r
}

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/auth"
	"github.com/ayursutra/panchakarma-platform/internal/centers"
	"github.com/ayursutra/panchakarma-platform/internal/feedback"
	"github.com/ayursutra/panchakarma-platform/internal/http/handlers"
	"github.com/ayursutra/panchakarma-platform/internal/incidents"
	"github.com/ayursutra/panchakarma-platform/internal/inventory"
	"github.com/ayursutra/panchakarma-platform/internal/notifications"
	"github.com/ayursutra/panchakarma-platform/internal/reports"
	"github.com/ayursutra/panchakarma-platform/internal/scheduling"
	"github.com/ayursutra/panchakarma-platform/internal/telephony"
	"github.com/ayursutra/panchakarma-platform/internal/users"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

type noopDialer struct{}

func (noopDialer) SendMessage(context.Context, string, string) (*telephony.MessageResponse, error) {
	return &telephony.MessageResponse{SID: "SM0"}, nil
}

func (noopDialer) CreateCall(context.Context, string, string) (*telephony.CallResponse, error) {
	return &telephony.CallResponse{SID: "CA0"}, nil
}

func testRouter(t *testing.T) (http.Handler, *auth.Manager) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := logging.New("error")
	sessions := auth.NewManager("test-secret", time.Hour)

	apptStore := appointments.NewStore(pool)
	userStore := users.NewStore(pool)
	centerStore := centers.NewStore(pool)
	notifSvc := notifications.NewService(noopDialer{}, notifications.NewStore(pool), nil,
		logger, "http://localhost:8080", 4*time.Hour)
	scheduler := scheduling.NewService(pool, apptStore, notifSvc, nil, logger)
	incidentSvc := incidents.NewService(incidents.NewStore(pool), apptStore, logger)
	inventorySvc := inventory.NewService(inventory.NewStore(pool), nil, logger)
	feedbackSvc := feedback.NewService(feedback.NewStore(pool), nil, nil, logger)

	handler := New(&Config{
		Logger:           logger,
		AuthHandler:      handlers.NewAuthHandler(userStore, sessions, logger),
		CatalogHandler:   handlers.NewCatalogHandler(),
		CentersHandler:   handlers.NewCentersHandler(centerStore, logger),
		BookingHandler:   handlers.NewBookingHandler(scheduler, apptStore, centerStore, userStore, incidentSvc, nil, logger),
		FeedbackHandler:  handlers.NewFeedbackHandler(feedbackSvc, nil, userStore, logger),
		RelayHandler:     handlers.NewRelayHandler(notifSvc, logger),
		InventoryHandler: handlers.NewInventoryHandler(inventorySvc, logger),
		DashboardHandler: handlers.NewDashboardHandler(scheduler, notifications.NewStore(pool), logger),
		ReportsHandler: handlers.NewReportsHandler(reports.NewPDFService(), apptStore,
			feedback.NewStore(pool), userStore, scheduler, inventorySvc, logger),
		Sessions:        sessions,
		RelayRatePerSec: 10,
		RelayBurst:      10,
	})
	return handler, sessions
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := testRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTherapyCatalogIsPublic(t *testing.T) {
	handler, _ := testRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/therapies", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vamana")
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	handler, _ := testRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/inventory", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectPatients(t *testing.T) {
	handler, sessions := testRouter(t)

	token, err := sessions.Issue(&users.User{Role: users.RolePatient, ID: uuid.New()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPractitionerRoutesRejectPatients(t *testing.T) {
	handler, sessions := testRouter(t)

	token, err := sessions.Issue(&users.User{Role: users.RolePatient, ID: uuid.New()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/feedback/live", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVoiceResponseIsPublic(t *testing.T) {
	handler, _ := testRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/voice-response?message=hello", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<Response>")
}

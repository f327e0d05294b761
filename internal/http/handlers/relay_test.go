package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/panchakarma-platform/internal/notifications"
	"github.com/ayursutra/panchakarma-platform/internal/telephony"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

type stubDialer struct {
	err error
}

func (d *stubDialer) SendMessage(_ context.Context, to, _ string) (*telephony.MessageResponse, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &telephony.MessageResponse{SID: "SM42", Status: "queued", To: to}, nil
}

func (d *stubDialer) CreateCall(_ context.Context, to, _ string) (*telephony.CallResponse, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &telephony.CallResponse{SID: "CA42", Status: "queued", To: to}, nil
}

func newRelayHandler(t *testing.T, dialer *stubDialer) (*RelayHandler, pgxmock.PgxConnIface) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mock.Close(context.Background()) })

	svc := notifications.NewService(dialer, notifications.NewStore(mock), nil,
		logging.New("error"), "https://ayursutra.example.com", 4*time.Hour)
	return NewRelayHandler(svc, logging.New("error")), mock
}

func expectAudit(mock pgxmock.PgxConnIface, channel, phone, body, status, sid, errMsg string) {
	mock.ExpectExec("INSERT INTO sms_logs").
		WithArgs(pgxmock.AnyArg(), channel, phone, body, status, "twilio", sid, errMsg, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func TestSendSMSRelaySuccess(t *testing.T) {
	h, mock := newRelayHandler(t, &stubDialer{})
	expectAudit(mock, notifications.ChannelSMS, "+919876543210", "Namaste", "sent", "SM42", "")

	req := httptest.NewRequest(http.MethodPost, "/api/send-sms",
		strings.NewReader(`{"to":"+919876543210","body":"Namaste"}`))
	rec := httptest.NewRecorder()
	h.SendSMS(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"sid":"SM42"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendSMSRelayProviderFailure(t *testing.T) {
	h, mock := newRelayHandler(t, &stubDialer{err: errors.New("twilio: http status 503")})
	expectAudit(mock, notifications.ChannelSMS, "+919876543210", "Namaste",
		"failed", "", "twilio: http status 503")

	req := httptest.NewRequest(http.MethodPost, "/api/send-sms",
		strings.NewReader(`{"to":"+919876543210","body":"Namaste"}`))
	rec := httptest.NewRecorder()
	h.SendSMS(rec, req)

	// Provider failures surface in the payload, not the HTTP status.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "503")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendSMSRelayRejectsNonPost(t *testing.T) {
	h, _ := newRelayHandler(t, &stubDialer{})

	req := httptest.NewRequest(http.MethodGet, "/api/send-sms", nil)
	rec := httptest.NewRecorder()
	h.SendSMS(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSendSMSRelayRequiresFields(t *testing.T) {
	h, _ := newRelayHandler(t, &stubDialer{})

	req := httptest.NewRequest(http.MethodPost, "/api/send-sms", strings.NewReader(`{"to":"+91"}`))
	rec := httptest.NewRecorder()
	h.SendSMS(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMakeCallRelay(t *testing.T) {
	h, mock := newRelayHandler(t, &stubDialer{})
	expectAudit(mock, notifications.ChannelVoice, "+919876543210", "rest well", "sent", "CA42", "")

	req := httptest.NewRequest(http.MethodPost, "/api/make-call",
		strings.NewReader(`{"to":"+919876543210","message":"rest well"}`))
	rec := httptest.NewRecorder()
	h.MakeCall(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CA42")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoiceResponseServesTwiML(t *testing.T) {
	h, _ := newRelayHandler(t, &stubDialer{})

	req := httptest.NewRequest(http.MethodGet, "/api/voice-response?message=rest+well", nil)
	rec := httptest.NewRecorder()
	h.VoiceResponse(rec, req)

	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<Response>")
	assert.Contains(t, rec.Body.String(), "rest well")
	assert.Contains(t, rec.Body.String(), "Namaste from Ayursutra Center.")
}

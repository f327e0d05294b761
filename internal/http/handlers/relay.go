package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ayursutra/panchakarma-platform/internal/notifications"
	"github.com/ayursutra/panchakarma-platform/internal/telephony"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// RelayHandler exposes the raw SMS/voice relay endpoints. The booking flow
// uses the notifications service directly; these endpoints exist for the
// dashboard's manual-send tools and the voice callback Twilio fetches.
type RelayHandler struct {
	notifier *notifications.Service
	logger   *logging.Logger
}

// NewRelayHandler creates a relay handler.
func NewRelayHandler(notifier *notifications.Service, logger *logging.Logger) *RelayHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &RelayHandler{notifier: notifier, logger: logger}
}

type relayRequest struct {
	To      string `json:"to"`
	Body    string `json:"body"`
	Message string `json:"message"`
}

type relayResponse struct {
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendSMS relays one SMS through the provider. Failures come back as a JSON
// payload with success=false rather than a 5xx, so dashboard tooling can show
// the provider's reason.
// POST /api/send-sms
func (h *RelayHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req relayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.To == "" || req.Body == "" {
		jsonError(w, "to and body are required", http.StatusBadRequest)
		return
	}

	result := h.notifier.SendSMS(r.Context(), req.To, req.Body)
	writeJSON(w, http.StatusOK, relayResponse{
		Success: result.Success,
		SID:     result.SID,
		Error:   result.Error,
	})
}

// MakeCall places an automated voice call that reads the given message.
// POST /api/make-call
func (h *RelayHandler) MakeCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req relayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.To == "" {
		jsonError(w, "to is required", http.StatusBadRequest)
		return
	}

	result := h.notifier.MakeBotCall(r.Context(), req.To, req.Message)
	writeJSON(w, http.StatusOK, relayResponse{
		Success: result.Success,
		SID:     result.SID,
		Error:   result.Error,
	})
}

// VoiceResponse returns the TwiML document the provider fetches when the
// callee answers.
// GET /api/voice-response?message=...
func (h *RelayHandler) VoiceResponse(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write([]byte(telephony.RenderVoiceScript(message)))
}

package notifications

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/telephony"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

const minPhoneLength = 5

// Dialer is the telephony surface the service needs.
type Dialer interface {
	SendMessage(ctx context.Context, to, body string) (*telephony.MessageResponse, error)
	CreateCall(ctx context.Context, to, voiceURL string) (*telephony.CallResponse, error)
}

// Metrics records dispatch outcomes.
type Metrics interface {
	ObserveDispatch(channel, status string)
}

// DispatchResult mirrors the relay's {success, sid, error} contract. Dispatch
// failures are outcomes, not errors; they never propagate past the service.
type DispatchResult struct {
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Service composes patient alert messages, dispatches them, and journals
// every attempt.
type Service struct {
	dialer        Dialer
	store         *Store
	metrics       Metrics
	logger        *logging.Logger
	publicBaseURL string
	postOffset    time.Duration
}

// NewService constructs a notification service. postOffset is how long after
// the appointment the recovery reminder goes out.
func NewService(dialer Dialer, store *Store, metrics Metrics, logger *logging.Logger, publicBaseURL string, postOffset time.Duration) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if postOffset <= 0 {
		postOffset = 4 * time.Hour
	}
	return &Service{
		dialer:        dialer,
		store:         store,
		metrics:       metrics,
		logger:        logger,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		postOffset:    postOffset,
	}
}

// SendSMS dispatches a text message and appends an audit row whether or not
// the provider accepted it.
func (s *Service) SendSMS(ctx context.Context, phone, message string) DispatchResult {
	result := DispatchResult{}
	if s.dialer == nil {
		result.Error = "telephony relay not configured"
		s.audit(ctx, ChannelSMS, phone, message, result)
		return result
	}
	resp, err := s.dialer.SendMessage(ctx, phone, message)
	if err != nil {
		result.Error = err.Error()
		s.logger.Error("sms dispatch failed", "phone", phone, "error", err)
	} else {
		result.Success = true
		result.SID = resp.SID
	}
	s.audit(ctx, ChannelSMS, phone, message, result)
	return result
}

// MakeBotCall places an automated voice call that reads the message aloud.
func (s *Service) MakeBotCall(ctx context.Context, phone, message string) DispatchResult {
	result := DispatchResult{}
	if s.dialer == nil {
		result.Error = "telephony relay not configured"
		s.audit(ctx, ChannelVoice, phone, message, result)
		return result
	}
	resp, err := s.dialer.CreateCall(ctx, phone, s.voiceResponseURL(message))
	if err != nil {
		result.Error = err.Error()
		s.logger.Error("voice dispatch failed", "phone", phone, "error", err)
	} else {
		result.Success = true
		result.SID = resp.SID
	}
	s.audit(ctx, ChannelVoice, phone, message, result)
	return result
}

// ScheduleForAppointment arms the alerts for a fresh booking: the combined
// confirmation + Purvakarma SMS goes out now, and a Paschatkarma reminder is
// journaled for dispatch after the session. A phone number shorter than five
// characters refuses the whole operation without touching the network.
func (s *Service) ScheduleForAppointment(ctx context.Context, a *appointments.Appointment) bool {
	phone := strings.TrimSpace(a.PatientPhone)
	if len(phone) < minPhoneLength {
		s.logger.Error("refusing to arm alerts, phone number too short",
			"appointment_id", a.ID, "phone_length", len(phone))
		return false
	}

	confirmation := PreProcedureMessage(a.TherapyID, a.Date)
	result := s.SendSMS(ctx, phone, confirmation)

	reminder := &ScheduledNotification{
		AppointmentID: a.ID,
		Phone:         phone,
		Type:          TypePostProcedure,
		Message:       PostProcedureMessage(a.TherapyID),
		SendAt:        a.Date.Add(s.postOffset),
		Status:        StatusPending,
	}
	if err := s.store.Schedule(ctx, reminder); err != nil {
		s.logger.Error("failed to journal post-procedure reminder",
			"appointment_id", a.ID, "error", err)
	}

	return result.Success
}

func (s *Service) voiceResponseURL(message string) string {
	base := s.publicBaseURL
	if base == "" {
		base = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/api/voice-response?message=%s", base, url.QueryEscape(message))
}

func (s *Service) audit(ctx context.Context, channel, phone, body string, result DispatchResult) {
	status := "sent"
	if !result.Success {
		status = "failed"
	}
	if s.metrics != nil {
		s.metrics.ObserveDispatch(channel, status)
	}
	if s.store == nil {
		return
	}
	log := &DispatchLog{
		Channel:  channel,
		Phone:    phone,
		Body:     body,
		Status:   status,
		Provider: "twilio",
		SID:      result.SID,
		Error:    result.Error,
	}
	if err := s.store.AppendLog(ctx, log); err != nil {
		s.logger.Error("failed to append dispatch audit row", "error", err)
	}
}

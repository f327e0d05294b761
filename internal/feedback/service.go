package feedback

import (
	"context"

	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// Broadcaster pushes an entry to live listeners.
type Broadcaster interface {
	Broadcast(e Entry)
}

// Service records feedback and distributes it to the live surfaces. Postgres
// is the source of truth; the redis feed and websocket fan-out are best
// effort and never fail a submission.
type Service struct {
	store       *Store
	feed        *LiveFeed
	broadcaster Broadcaster
	logger      *logging.Logger
}

// NewService creates a feedback service. feed and broadcaster may be nil.
func NewService(store *Store, feed *LiveFeed, broadcaster Broadcaster, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, feed: feed, broadcaster: broadcaster, logger: logger}
}

// Submit validates, persists, and distributes one feedback entry.
func (s *Service) Submit(ctx context.Context, e *Entry) error {
	if err := s.store.Insert(ctx, e); err != nil {
		return err
	}
	if err := s.feed.Push(ctx, *e); err != nil {
		s.logger.Error("feedback: live feed push failed", "entry_id", e.ID, "error", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(*e)
	}
	s.logger.Info("feedback: recorded",
		"entry_id", e.ID, "appointment_id", e.AppointmentID, "pain_level", e.PainLevel)
	return nil
}

// HistoryForPatient returns a patient's feedback, newest first.
func (s *Service) HistoryForPatient(ctx context.Context, email string) ([]Entry, error) {
	return s.store.ListByPatient(ctx, email)
}

// Live returns the recent entries from the capped feed.
func (s *Service) Live(ctx context.Context) ([]Entry, error) {
	return s.feed.Recent(ctx)
}

package incidents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// Actions a practitioner can take on an adverse reaction.
const (
	ActionConsult = "consult"
	ActionCancel  = "cancel"
)

var (
	// ErrUnknownAction is returned for an action outside consult/cancel.
	ErrUnknownAction = errors.New("incidents: action must be consult or cancel")
	// ErrMissingReaction is returned when no reaction type is given.
	ErrMissingReaction = errors.New("incidents: reaction type required")
)

// Incident is one adverse reaction report. Rows are append only; the record
// of what happened during a procedure is never rewritten.
type Incident struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientEmail  string    `json:"patient_email"`
	ReactionType  string    `json:"reaction_type"`
	Action        string    `json:"action"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists incidents.
type Store struct {
	db DB
}

// NewStore creates an incident store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const incidentColumns = `id, appointment_id, patient_email, reaction_type, action, notes, created_at`

// Insert appends an incident.
func (s *Store) Insert(ctx context.Context, inc *Incident) error {
	if inc.ID == uuid.Nil {
		inc.ID = uuid.New()
	}
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO incidents (id, appointment_id, patient_email, reaction_type, action, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inc.ID, inc.AppointmentID, inc.PatientEmail, inc.ReactionType, inc.Action, inc.Notes, inc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("incidents: insert: %w", err)
	}
	return nil
}

// ListByAppointment returns incidents for one appointment, newest first.
func (s *Store) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]Incident, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+incidentColumns+` FROM incidents
		WHERE appointment_id = $1 ORDER BY created_at DESC`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("incidents: list: %w", err)
	}
	defer rows.Close()

	var result []Incident
	for rows.Next() {
		var inc Incident
		err := rows.Scan(&inc.ID, &inc.AppointmentID, &inc.PatientEmail, &inc.ReactionType, &inc.Action, &inc.Notes, &inc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("incidents: scan: %w", err)
		}
		result = append(result, inc)
	}
	return result, rows.Err()
}

// AppointmentUpdater transitions an appointment's status.
type AppointmentUpdater interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointments.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Service files adverse reaction reports and applies the matching
// appointment transition.
type Service struct {
	store  *Store
	appts  AppointmentUpdater
	logger *logging.Logger
}

// NewService creates an incident service.
func NewService(store *Store, appts AppointmentUpdater, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, appts: appts, logger: logger}
}

// ReportRequest carries an adverse reaction report.
type ReportRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	ReactionType  string    `json:"reaction_type"`
	Action        string    `json:"action"`
	Notes         string    `json:"notes"`
}

// Report records the incident and moves the appointment to the flagged or
// medically cancelled state depending on the chosen action.
func (s *Service) Report(ctx context.Context, req ReportRequest) (*Incident, error) {
	if req.ReactionType == "" {
		return nil, ErrMissingReaction
	}
	var status string
	switch req.Action {
	case ActionConsult:
		status = appointments.StatusFlagged
	case ActionCancel:
		status = appointments.StatusCancelled
	default:
		return nil, ErrUnknownAction
	}

	appt, err := s.appts.GetByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("incidents: load appointment: %w", err)
	}

	inc := &Incident{
		AppointmentID: appt.ID,
		PatientEmail:  appt.PatientEmail,
		ReactionType:  req.ReactionType,
		Action:        req.Action,
		Notes:         req.Notes,
	}
	if err := s.store.Insert(ctx, inc); err != nil {
		return nil, err
	}
	if err := s.appts.UpdateStatus(ctx, appt.ID, status); err != nil {
		return nil, fmt.Errorf("incidents: update appointment: %w", err)
	}

	s.logger.Warn("incidents: adverse reaction reported",
		"appointment_id", appt.ID, "reaction", req.ReactionType, "action", req.Action, "new_status", status)
	return inc, nil
}

package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInvalidPainLevel is returned when the pain score is outside 1..10.
	ErrInvalidPainLevel = errors.New("feedback: pain level must be between 1 and 10")
	// ErrMissingAppointment is returned when no appointment is referenced.
	ErrMissingAppointment = errors.New("feedback: appointment required")
)

// Entry is one post-session feedback record from a patient.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientEmail  string    `json:"patient_email"`
	TherapyID     string    `json:"therapy_id"`
	PainLevel     int       `json:"pain_level"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks an entry before persistence.
func (e *Entry) Validate() error {
	if e.AppointmentID == uuid.Nil {
		return ErrMissingAppointment
	}
	if e.PainLevel < 1 || e.PainLevel > 10 {
		return ErrInvalidPainLevel
	}
	return nil
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists feedback entries.
type Store struct {
	db DB
}

// NewStore creates a feedback store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const entryColumns = `id, appointment_id, patient_email, therapy_id, pain_level, notes, created_at`

// Insert records a feedback entry.
func (s *Store) Insert(ctx context.Context, e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO feedback (id, appointment_id, patient_email, therapy_id, pain_level, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.AppointmentID, e.PatientEmail, e.TherapyID, e.PainLevel, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("feedback: insert: %w", err)
	}
	return nil
}

// ListByPatient returns a patient's feedback history, newest first.
func (s *Store) ListByPatient(ctx context.Context, email string) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+entryColumns+` FROM feedback
		WHERE patient_email = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("feedback: list by patient: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByAppointment returns feedback for one appointment, newest first.
func (s *Store) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+entryColumns+` FROM feedback
		WHERE appointment_id = $1 ORDER BY created_at DESC`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("feedback: list by appointment: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var result []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.AppointmentID, &e.PatientEmail, &e.TherapyID, &e.PainLevel, &e.Notes, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("feedback: scan: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier abstracts the pgx query interface so store methods can run inside a
// caller-owned transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for appointments.
type Store struct {
	db Querier
}

// NewStore creates an appointments store.
func NewStore(db Querier) *Store {
	return &Store{db: db}
}

func (s *Store) querier(q Querier) Querier {
	if q != nil {
		return q
	}
	return s.db
}

const appointmentColumns = `id, patient_id, patient_email, patient_phone, therapy_id, date,
		center_id, center_name, room_id, room_name, therapist_id, therapist_name, status, created_at`

// Insert writes a new appointment row. When q is non-nil the insert joins the
// caller's transaction.
func (s *Store) Insert(ctx context.Context, q Querier, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.Date = Day(a.Date)

	_, err := s.querier(q).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, patient_email, patient_phone, therapy_id, date,
			center_id, center_name, room_id, room_name, therapist_id, therapist_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.PatientID, a.PatientEmail, a.PatientPhone, a.TherapyID, a.Date,
		a.CenterID, a.CenterName, a.RoomID, a.RoomName, a.TherapistID, a.TherapistName,
		a.Status, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// CountForRoomOnDate returns how many appointments occupy a room on a day.
func (s *Store) CountForRoomOnDate(ctx context.Context, q Querier, roomID string, day time.Time) (int, error) {
	var count int
	err := s.querier(q).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments WHERE room_id = $1 AND date = $2`,
		roomID, Day(day),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("appointments: count for room: %w", err)
	}
	return count, nil
}

// CountOnDate returns the total appointments across all rooms on a day.
func (s *Store) CountOnDate(ctx context.Context, q Querier, day time.Time) (int, error) {
	var count int
	err := s.querier(q).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments WHERE date = $1`, Day(day),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("appointments: count on date: %w", err)
	}
	return count, nil
}

// GetByID fetches a single appointment.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: get by id: %w", err)
	}
	return a, nil
}

// ListByPatient returns a patient's appointments, newest date first.
func (s *Store) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE patient_id = $1
		ORDER BY date DESC, created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by patient: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListByDate returns all appointments on a day, for the practitioner view.
func (s *Store) ListByDate(ctx context.Context, day time.Time) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE date = $1
		ORDER BY room_id, created_at`, Day(day))
	if err != nil {
		return nil, fmt.Errorf("appointments: list by date: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// UpdateStatus transitions an appointment to a new status.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.PatientEmail, &a.PatientPhone, &a.TherapyID, &a.Date,
		&a.CenterID, &a.CenterName, &a.RoomID, &a.RoomName,
		&a.TherapistID, &a.TherapistName, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Reminder statuses. Pending rows are picked up by the dispatch worker.
const (
	StatusPending = "Pending"
	StatusSent    = "Sent"
	StatusFailed  = "Failed"
)

// Audit channels.
const (
	ChannelSMS   = "sms"
	ChannelVoice = "voice"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DispatchLog is one audit row, written for every attempt regardless of the
// downstream outcome.
type DispatchLog struct {
	ID        uuid.UUID `json:"id"`
	Channel   string    `json:"channel"`
	Phone     string    `json:"phone"`
	Body      string    `json:"body"`
	Status    string    `json:"status"` // "sent" or "failed"
	Provider  string    `json:"provider"`
	SID       string    `json:"sid,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ScheduledNotification is a deferred reminder row. Unlike the system this
// replaces, pending rows are consumed by a worker instead of being write-only.
type ScheduledNotification struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	Phone         string     `json:"phone"`
	Type          string     `json:"type"`
	Message       string     `json:"message"`
	SendAt        time.Time  `json:"send_at"`
	Status        string     `json:"status"`
	Error         string     `json:"error,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Store persists dispatch audit rows and the reminder schedule.
type Store struct {
	db DB
}

// NewStore creates a notifications store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// AppendLog writes an audit row.
func (s *Store) AppendLog(ctx context.Context, l *DispatchLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO sms_logs (id, channel, phone, body, status, provider, sid, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.Channel, l.Phone, l.Body, l.Status, l.Provider, l.SID, l.Error, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("notifications: append log: %w", err)
	}
	return nil
}

// ListRecentLogs returns the latest audit rows for the admin view.
func (s *Store) ListRecentLogs(ctx context.Context, limit int) ([]DispatchLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, channel, phone, body, status, provider, sid, error, created_at
		FROM sms_logs
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("notifications: list logs: %w", err)
	}
	defer rows.Close()

	var result []DispatchLog
	for rows.Next() {
		var l DispatchLog
		if err := rows.Scan(&l.ID, &l.Channel, &l.Phone, &l.Body, &l.Status, &l.Provider, &l.SID, &l.Error, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// Schedule inserts a pending reminder.
func (s *Store) Schedule(ctx context.Context, n *ScheduledNotification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = StatusPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO scheduled_notifications (id, appointment_id, phone, type, message, send_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.AppointmentID, n.Phone, n.Type, n.Message, n.SendAt, n.Status, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("notifications: schedule: %w", err)
	}
	return nil
}

// ListDue returns pending reminders whose send_at is on or before asOf.
func (s *Store) ListDue(ctx context.Context, asOf time.Time) ([]ScheduledNotification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, appointment_id, phone, type, message, send_at, status, error, sent_at, created_at
		FROM scheduled_notifications
		WHERE status = 'Pending' AND send_at <= $1
		ORDER BY send_at ASC`, asOf)
	if err != nil {
		return nil, fmt.Errorf("notifications: list due: %w", err)
	}
	defer rows.Close()

	var result []ScheduledNotification
	for rows.Next() {
		var n ScheduledNotification
		if err := rows.Scan(&n.ID, &n.AppointmentID, &n.Phone, &n.Type, &n.Message, &n.SendAt, &n.Status, &n.Error, &n.SentAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan reminder: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkSent transitions a reminder Pending → Sent. The status guard keeps a
// reminder from being dispatched twice by overlapping worker runs.
func (s *Store) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE scheduled_notifications SET status = 'Sent', sent_at = $1
		WHERE id = $2 AND status = 'Pending'`, now, id)
	if err != nil {
		return fmt.Errorf("notifications: mark sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notifications: mark sent: no pending reminder with id %s", id)
	}
	return nil
}

// MarkFailed transitions a reminder Pending → Failed with the error recorded.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE scheduled_notifications SET status = 'Failed', error = $1
		WHERE id = $2 AND status = 'Pending'`, cause, id)
	if err != nil {
		return fmt.Errorf("notifications: mark failed: %w", err)
	}
	return nil
}

// ListByAppointment returns every reminder journaled for an appointment.
func (s *Store) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]ScheduledNotification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, appointment_id, phone, type, message, send_at, status, error, sent_at, created_at
		FROM scheduled_notifications
		WHERE appointment_id = $1
		ORDER BY send_at ASC`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("notifications: list by appointment: %w", err)
	}
	defer rows.Close()

	var result []ScheduledNotification
	for rows.Next() {
		var n ScheduledNotification
		if err := rows.Scan(&n.ID, &n.AppointmentID, &n.Phone, &n.Type, &n.Message, &n.SendAt, &n.Status, &n.Error, &n.SentAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan reminder: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

package appointments

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status values an appointment moves through. The two terminal safety states
// are written by the adverse-reaction flow.
const (
	StatusScheduled  = "Scheduled"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled (Medical)"
	StatusFlagged    = "Flagged (Reaction)"
)

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointments: not found")

	ErrMissingPatient = errors.New("appointments: patient required")
	ErrMissingTherapy = errors.New("appointments: therapy required")
	ErrMissingDate    = errors.New("appointments: date required")
	ErrMissingCenter  = errors.New("appointments: center required")
)

// Appointment is a confirmed booking with its allocated resources.
type Appointment struct {
	ID            uuid.UUID `json:"id"`
	PatientID     uuid.UUID `json:"patient_id"`
	PatientEmail  string    `json:"patient_email"`
	PatientPhone  string    `json:"patient_phone"`
	TherapyID     string    `json:"therapy_id"`
	Date          time.Time `json:"date"`
	CenterID      uuid.UUID `json:"center_id"`
	CenterName    string    `json:"center_name"`
	RoomID        string    `json:"room_id"`
	RoomName      string    `json:"room_name"`
	TherapistID   string    `json:"therapist_id"`
	TherapistName string    `json:"therapist_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingRequest carries the patient's choices into the scheduling service.
type BookingRequest struct {
	PatientID    uuid.UUID `json:"-"`
	PatientEmail string    `json:"-"`
	PatientPhone string    `json:"-"`
	TherapyID    string    `json:"therapy_id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	CenterID     uuid.UUID `json:"center_id"`
	CenterName   string    `json:"center_name"`
}

// Validate checks the request and returns the parsed calendar day.
func (r *BookingRequest) Validate() (time.Time, error) {
	if r.PatientID == uuid.Nil {
		return time.Time{}, ErrMissingPatient
	}
	if strings.TrimSpace(r.TherapyID) == "" {
		return time.Time{}, ErrMissingTherapy
	}
	if r.CenterID == uuid.Nil {
		return time.Time{}, ErrMissingCenter
	}
	day, err := ParseDay(r.Date)
	if err != nil {
		return time.Time{}, ErrMissingDate
	}
	return day, nil
}

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time. Appointments
// are identified by calendar day, so time-of-day never participates in slot
// matching.
func ParseDay(s string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return day.UTC(), nil
}

// Day normalizes any timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

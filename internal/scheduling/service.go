package scheduling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

var schedulingTracer = otel.Tracer("ayursutra.internal.scheduling")

// ErrNoRoomAvailable signals every room is saturated for the requested day.
// This is an expected business outcome, not a failure.
var ErrNoRoomAvailable = errors.New("scheduling: no room available")

// Pool is the subset of pgxpool used by the service. Allocation runs inside a
// transaction so the slot check and the appointment insert commit atomically.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Notifier arms booking alerts once an appointment is committed.
type Notifier interface {
	ScheduleForAppointment(ctx context.Context, a *appointments.Appointment) bool
}

// Metrics records booking outcomes.
type Metrics interface {
	ObserveBooking(outcome string)
}

// Service owns room/therapist allocation and the booking write.
type Service struct {
	pool     Pool
	store    *appointments.Store
	notifier Notifier
	metrics  Metrics
	logger   *logging.Logger
}

// NewService constructs a scheduling service.
func NewService(pool Pool, store *appointments.Store, notifier Notifier, metrics Metrics, logger *logging.Logger) *Service {
	if pool == nil {
		panic("scheduling: pool required")
	}
	if store == nil {
		panic("scheduling: appointments store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{pool: pool, store: store, notifier: notifier, metrics: metrics, logger: logger}
}

// Book allocates a room and therapist for the request and persists the
// appointment. Bookings for the same day are serialized with a transaction-
// scoped advisory lock, so two concurrent requests cannot both take the last
// slot.
func (s *Service) Book(ctx context.Context, req *appointments.BookingRequest) (*appointments.Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.book")
	defer span.End()

	day, err := req.Validate()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("ayursutra.therapy_id", req.TherapyID),
		attribute.String("ayursutra.date", day.Format(time.DateOnly)),
	)

	therapist := AllocateTherapist(req.TherapyID)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduling: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize allocation for this calendar day. The lock releases on
	// commit/rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, dayLockKey(day)); err != nil {
		return nil, fmt.Errorf("scheduling: acquire day lock: %w", err)
	}

	room, err := s.allocateRoom(ctx, tx, day)
	if err != nil {
		if errors.Is(err, ErrNoRoomAvailable) {
			s.observe("exhausted")
			s.logger.Info("booking rejected, all rooms saturated", "date", day.Format(time.DateOnly))
		}
		return nil, err
	}

	appt := &appointments.Appointment{
		PatientID:     req.PatientID,
		PatientEmail:  req.PatientEmail,
		PatientPhone:  req.PatientPhone,
		TherapyID:     req.TherapyID,
		Date:          day,
		CenterID:      req.CenterID,
		CenterName:    req.CenterName,
		RoomID:        room.ID,
		RoomName:      room.Name,
		TherapistID:   therapist.ID,
		TherapistName: therapist.Name,
		Status:        appointments.StatusScheduled,
	}
	if err := s.store.Insert(ctx, tx, appt); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("scheduling: commit: %w", err)
	}

	s.observe("booked")
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"therapy_id", appt.TherapyID,
		"date", day.Format(time.DateOnly),
		"room_id", room.ID,
		"therapist_id", therapist.ID,
	)

	// Notification dispatch is best-effort; a relay outage never unwinds a
	// committed booking.
	if s.notifier != nil {
		if ok := s.notifier.ScheduleForAppointment(ctx, appt); !ok {
			s.logger.Warn("booking alerts not armed", "appointment_id", appt.ID)
		}
	}

	return appt, nil
}

// allocateRoom walks the fixed room list and returns the first with a free
// slot for the day. Tie-break is list order, not load balancing.
func (s *Service) allocateRoom(ctx context.Context, q appointments.Querier, day time.Time) (Room, error) {
	for _, room := range TherapyRooms {
		count, err := s.store.CountForRoomOnDate(ctx, q, room.ID, day)
		if err != nil {
			return Room{}, err
		}
		if count < SlotsPerRoomPerDay {
			return room, nil
		}
	}
	return Room{}, ErrNoRoomAvailable
}

// CheckRoomAvailability reports whether a room has no booking on the day.
func (s *Service) CheckRoomAvailability(ctx context.Context, roomID string, day time.Time) (bool, error) {
	count, err := s.store.CountForRoomOnDate(ctx, nil, roomID, day)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// CenterOccupancy returns the day's bookings as a percentage of total
// capacity, rounded and capped at 100.
func (s *Service) CenterOccupancy(ctx context.Context, day time.Time) (int, error) {
	booked, err := s.store.CountOnDate(ctx, nil, day)
	if err != nil {
		return 0, err
	}
	return OccupancyPercent(booked, TotalDailyCapacity()), nil
}

// OccupancyPercent computes round(booked/capacity*100) capped at 100.
func OccupancyPercent(booked, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	pct := int(math.Round(float64(booked) / float64(capacity) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// dayLockKey derives the advisory lock key for a calendar day.
func dayLockKey(day time.Time) int64 {
	return appointments.Day(day).Unix()
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveBooking(outcome)
	}
}

package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestInsertFillsDefaults(t *testing.T) {
	store, mock := newMockStore(t)

	a := &Appointment{
		PatientID:    uuid.New(),
		PatientEmail: "asha@example.com",
		TherapyID:    "nasya",
		Date:         time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		CenterID:     uuid.New(),
		RoomID:       "R1",
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), a.PatientID, a.PatientEmail, "", a.TherapyID,
			time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			a.CenterID, "", "R1", "", "", "", StatusScheduled, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Insert(context.Background(), nil, a))
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.False(t, a.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountForRoomOnDate(t *testing.T) {
	store, mock := newMockStore(t)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM appointments WHERE room_id").
		WithArgs("R3", day).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	count, err := store.CountForRoomOnDate(context.Background(), nil, "R3", day)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(appointmentColumnNames()))

	_, err := store.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	patientID := uuid.New()
	centerID := uuid.New()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(appointmentColumnNames()).
			AddRow(id, patientID, "asha@example.com", "+919900112233", "basti", day,
				centerID, "Ayursutra Delhi", "R2", "Dhanvantari Hall B",
				"T3", "Therapist Rohan", StatusScheduled, now))

	a, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "basti", a.TherapyID)
	assert.Equal(t, "R2", a.RoomID)
	assert.Equal(t, "Therapist Rohan", a.TherapistName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByPatient(t *testing.T) {
	store, mock := newMockStore(t)
	patientID := uuid.New()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE patient_id").
		WithArgs(patientID).
		WillReturnRows(pgxmock.NewRows(appointmentColumnNames()).
			AddRow(uuid.New(), patientID, "asha@example.com", "", "vamana", day.AddDate(0, 0, 7),
				uuid.New(), "Ayursutra Delhi", "R1", "Dhanvantari Hall A",
				"T1", "Dr. Aarav", StatusScheduled, now).
			AddRow(uuid.New(), patientID, "asha@example.com", "", "nasya", day,
				uuid.New(), "Ayursutra Delhi", "R4", "Charaka Chamber",
				"T2", "Therapist Maya", StatusCompleted, now))

	list, err := store.ListByPatient(context.Background(), patientID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "vamana", list[0].TherapyID)
	assert.Equal(t, StatusCompleted, list[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(StatusCompleted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, store.UpdateStatus(context.Background(), id, StatusCompleted))

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(StatusCompleted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, store.UpdateStatus(context.Background(), id, StatusCompleted), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func appointmentColumnNames() []string {
	return []string{"id", "patient_id", "patient_email", "patient_phone", "therapy_id", "date",
		"center_id", "center_name", "room_id", "room_name", "therapist_id", "therapist_name",
		"status", "created_at"}
}

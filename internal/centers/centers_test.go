package centers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func centerColumnNames() []string {
	return []string{"id", "name", "address", "city", "latitude", "longitude", "created_at"}
}

func TestRegisterValidates(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	store := NewStore(mock)
	assert.ErrorIs(t, store.Register(context.Background(), &Center{Address: "MG Road"}), ErrMissingName)
	assert.ErrorIs(t, store.Register(context.Background(), &Center{Name: "Ayursutra Kochi"}), ErrMissingAddress)
}

func TestRegisterAssignsID(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	mock.ExpectExec("INSERT INTO centers").
		WithArgs(pgxmock.AnyArg(), "Ayursutra Kochi", "MG Road", "Kochi", 9.9312, 76.2673, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewStore(mock)
	c := &Center{Name: "Ayursutra Kochi", Address: "MG Road", City: "Kochi", Latitude: 9.9312, Longitude: 76.2673}
	require.NoError(t, store.Register(context.Background(), c))
	assert.NotEqual(t, uuid.Nil, c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByProximitySortsNearestFirst(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM centers ORDER BY name").
		WillReturnRows(pgxmock.NewRows(centerColumnNames()).
			AddRow(uuid.New(), "Ayursutra Kochi", "MG Road", "Kochi", 9.9312, 76.2673, now).
			AddRow(uuid.New(), "Ayursutra Delhi", "Karol Bagh", "Delhi", 28.6519, 77.1909, now))

	store := NewStore(mock)
	lat, lng := 28.6139, 77.2090
	result, err := store.ListByProximity(context.Background(), &lat, &lng)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Ayursutra Delhi", result[0].Name)
	assert.Less(t, result[0].DistanceKm, result[1].DistanceKm)
}

func TestListByProximityDefaultsToDelhi(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM centers ORDER BY name").
		WillReturnRows(pgxmock.NewRows(centerColumnNames()).
			AddRow(uuid.New(), "Ayursutra Delhi", "Karol Bagh", "Delhi", 28.6519, 77.1909, now))

	store := NewStore(mock)
	result, err := store.ListByProximity(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	// Karol Bagh is a short hop from Connaught Place.
	assert.Less(t, result[0].DistanceKm, 10.0)
	assert.Greater(t, result[0].DistanceKm, 0.0)
}

func TestGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM centers WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(centerColumnNames()))

	store := NewStore(mock)
	_, err = store.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

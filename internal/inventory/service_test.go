package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

type recordingAlerter struct {
	alerts []string
}

func (a *recordingAlerter) SendLowStockAlert(_ context.Context, itemName string, _ int, _ string) error {
	a.alerts = append(a.alerts, itemName)
	return nil
}

func itemColumnNames() []string {
	return []string{"id", "name", "type", "stock_level", "unit", "low_stock_threshold", "last_restocked"}
}

func TestConsumeCrossingThresholdAlerts(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	id := uuid.New()
	mock.ExpectQuery("UPDATE inventory SET stock_level = stock_level -").
		WithArgs(200, id).
		WillReturnRows(pgxmock.NewRows(itemColumnNames()).
			AddRow(id, "Nasya Oil (Anu Taila)", TypeOil, 40, "ml", 50, nil))

	alerter := &recordingAlerter{}
	svc := NewService(NewStore(mock), alerter, logging.New("error"))

	item, err := svc.Consume(context.Background(), id, 200)
	require.NoError(t, err)
	assert.Equal(t, 40, item.StockLevel)
	assert.Equal(t, []string{"Nasya Oil (Anu Taila)"}, alerter.alerts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeAlreadyBelowThresholdDoesNotRealert(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	id := uuid.New()
	// 45 -> 40 stays under the 50 threshold; the crossing alert already fired.
	mock.ExpectQuery("UPDATE inventory SET stock_level = stock_level -").
		WithArgs(5, id).
		WillReturnRows(pgxmock.NewRows(itemColumnNames()).
			AddRow(id, "Nasya Oil (Anu Taila)", TypeOil, 40, "ml", 50, nil))

	alerter := &recordingAlerter{}
	svc := NewService(NewStore(mock), alerter, logging.New("error"))

	_, err = svc.Consume(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Empty(t, alerter.alerts)
}

func TestConsumeRejectsNonPositiveAmount(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	svc := NewService(NewStore(mock), nil, logging.New("error"))
	_, err = svc.Consume(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRestockStampsTime(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE inventory SET stock_level = stock_level \\+").
		WithArgs(1000, pgxmock.AnyArg(), id).
		WillReturnRows(pgxmock.NewRows(itemColumnNames()).
			AddRow(id, "Mahanarayan Taila", TypeOil, 6000, "ml", 1000, &now))

	svc := NewService(NewStore(mock), nil, logging.New("error"))
	item, err := svc.Restock(context.Background(), id, 1000)
	require.NoError(t, err)
	assert.Equal(t, 6000, item.StockLevel)
	require.NotNil(t, item.LastRestocked)
}

func TestListSeedsEmptyTable(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM inventory").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	for _, item := range starterItems() {
		mock.ExpectExec("INSERT INTO inventory").
			WithArgs(pgxmock.AnyArg(), item.Name, item.Type, item.StockLevel,
				item.Unit, item.LowStockThreshold, item.LastRestocked).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	rows := pgxmock.NewRows(itemColumnNames())
	for _, item := range starterItems() {
		rows.AddRow(uuid.New(), item.Name, item.Type, item.StockLevel, item.Unit, item.LowStockThreshold, nil)
	}
	mock.ExpectQuery("SELECT (.+) FROM inventory ORDER BY name").WillReturnRows(rows)

	svc := NewService(NewStore(mock), nil, logging.New("error"))
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 5)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSkipsSeedWhenPopulated(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM inventory").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("SELECT (.+) FROM inventory ORDER BY name").
		WillReturnRows(pgxmock.NewRows(itemColumnNames()).
			AddRow(uuid.New(), "Triphala Churna", TypeMedicine, 2000, "g", 200, nil))

	svc := NewService(NewStore(mock), nil, logging.New("error"))
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemValidate(t *testing.T) {
	assert.ErrorIs(t, (&Item{Name: " ", Type: TypeOil}).Validate(), ErrInvalidName)
	assert.ErrorIs(t, (&Item{Name: "Ghee", Type: "Dairy"}).Validate(), ErrInvalidType)
	assert.NoError(t, (&Item{Name: "Ghee", Type: TypeConsumable}).Validate())
}

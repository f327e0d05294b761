package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides stock CRUD with atomic level adjustments.
type Store struct {
	db DB
}

// NewStore creates an inventory store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const itemColumns = `id, name, type, stock_level, unit, low_stock_threshold, last_restocked`

// ListAll returns every item sorted by name.
func (s *Store) ListAll(ctx context.Context) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+itemColumns+` FROM inventory ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Add inserts a new item.
func (s *Store) Add(ctx context.Context, item *Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO inventory (id, name, type, stock_level, unit, low_stock_threshold, last_restocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Name, item.Type, item.StockLevel, item.Unit, item.LowStockThreshold, item.LastRestocked,
	)
	if err != nil {
		return fmt.Errorf("inventory: add: %w", err)
	}
	return nil
}

// Consume atomically deducts stock and returns the updated item. The single
// UPDATE avoids a read-modify-write race on the level.
func (s *Store) Consume(ctx context.Context, id uuid.UUID, amount int) (*Item, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	row := s.db.QueryRow(ctx, `
		UPDATE inventory SET stock_level = stock_level - $1
		WHERE id = $2
		RETURNING `+itemColumns, amount, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("inventory: consume: %w", err)
	}
	return item, nil
}

// Restock atomically adds stock and stamps the restock time.
func (s *Store) Restock(ctx context.Context, id uuid.UUID, amount int) (*Item, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	row := s.db.QueryRow(ctx, `
		UPDATE inventory SET stock_level = stock_level + $1, last_restocked = $2
		WHERE id = $3
		RETURNING `+itemColumns, amount, time.Now().UTC(), id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("inventory: restock: %w", err)
	}
	return item, nil
}

// Count returns the number of items on record.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&count); err != nil {
		return 0, fmt.Errorf("inventory: count: %w", err)
	}
	return count, nil
}

// SeedInitialInventory inserts the starter stock when the table is empty.
// Used as a self-healing default on first admin dashboard load.
func (s *Store) SeedInitialInventory(ctx context.Context) (bool, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	for _, item := range starterItems() {
		if err := s.Add(ctx, &item); err != nil {
			return false, fmt.Errorf("inventory: seed: %w", err)
		}
	}
	return true, nil
}

func starterItems() []Item {
	return []Item{
		{Name: "Mahanarayan Taila", Type: TypeOil, StockLevel: 5000, Unit: "ml", LowStockThreshold: 1000},
		{Name: "Dhanwantharam Taila", Type: TypeOil, StockLevel: 3000, Unit: "ml", LowStockThreshold: 500},
		{Name: "Ksheerabala 101", Type: TypeMedicine, StockLevel: 50, Unit: "capsules", LowStockThreshold: 10},
		{Name: "Nasya Oil (Anu Taila)", Type: TypeOil, StockLevel: 200, Unit: "ml", LowStockThreshold: 50},
		{Name: "Triphala Churna", Type: TypeMedicine, StockLevel: 2000, Unit: "g", LowStockThreshold: 200},
	}
}

func scanItem(row pgx.Row) (*Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.Name, &item.Type, &item.StockLevel, &item.Unit, &item.LowStockThreshold, &item.LastRestocked)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	var result []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("inventory: scan: %w", err)
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

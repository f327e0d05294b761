package centers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ayursutra/panchakarma-platform/internal/geo"
)

var (
	// ErrNotFound is returned when a center does not exist.
	ErrNotFound = errors.New("centers: not found")

	ErrMissingName    = errors.New("centers: name required")
	ErrMissingAddress = errors.New("centers: address required")
)

// Center is a treatment location.
type Center struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`

	// DistanceKm is populated on proximity queries only.
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// Validate checks a center before registration.
func (c *Center) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(c.Address) == "" {
		return ErrMissingAddress
	}
	return nil
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists centers.
type Store struct {
	db DB
}

// NewStore creates a center store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const centerColumns = `id, name, address, city, latitude, longitude, created_at`

// Register inserts a new center.
func (s *Store) Register(ctx context.Context, c *Center) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO centers (id, name, address, city, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Address, c.City, c.Latitude, c.Longitude, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("centers: register: %w", err)
	}
	return nil
}

// GetByID fetches one center.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Center, error) {
	row := s.db.QueryRow(ctx, `SELECT `+centerColumns+` FROM centers WHERE id = $1`, id)
	c, err := scanCenter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("centers: get: %w", err)
	}
	return c, nil
}

// ListAll returns every center sorted by name.
func (s *Store) ListAll(ctx context.Context) ([]Center, error) {
	rows, err := s.db.Query(ctx, `SELECT `+centerColumns+` FROM centers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("centers: list: %w", err)
	}
	defer rows.Close()
	return scanCenters(rows)
}

// ListByProximity returns all centers with distances from the given point,
// nearest first. A nil point falls back to the default service location.
func (s *Store) ListByProximity(ctx context.Context, lat, lng *float64) ([]Center, error) {
	origin := geo.Resolve(lat, lng)
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].DistanceKm = geo.Distance(origin, geo.Coordinates{
			Lat: all[i].Latitude,
			Lng: all[i].Longitude,
		})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].DistanceKm < all[j].DistanceKm
	})
	return all, nil
}

func scanCenter(row pgx.Row) (*Center, error) {
	var c Center
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Latitude, &c.Longitude, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCenters(rows pgx.Rows) ([]Center, error) {
	var result []Center
	for rows.Next() {
		c, err := scanCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("centers: scan: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

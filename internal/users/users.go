package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// Account roles.
const (
	RolePatient      = "patient"
	RolePractitioner = "practitioner"
	RoleAdmin        = "admin"
)

var (
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("users: not found")
	// ErrEmailTaken is returned when registering a duplicate email.
	ErrEmailTaken = errors.New("users: email already registered")
	// ErrBadCredentials is returned on a failed login.
	ErrBadCredentials = errors.New("users: invalid email or password")

	ErrMissingEmail    = errors.New("users: email required")
	ErrMissingName     = errors.New("users: name required")
	ErrPasswordTooWeak = errors.New("users: password must be at least 8 characters")
)

// User is a platform account: patient, practitioner, or admin.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address,omitempty"`
	Role         string    `json:"role"`
	HealthNotes  string    `json:"health_notes,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RolePatient, RolePractitioner, RoleAdmin:
		return true
	}
	return false
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists accounts.
type Store struct {
	db DB
}

// NewStore creates a user store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, name, email, phone, address, role, health_notes, password_hash, created_at`

// RegisterParams carries a signup request.
type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register hashes the password and creates the account. Unknown or empty
// roles default to patient.
func (s *Store) Register(ctx context.Context, p RegisterParams) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return nil, ErrMissingEmail
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrMissingName
	}
	if len(p.Password) < 8 {
		return nil, ErrPasswordTooWeak
	}
	role := p.Role
	if !ValidRole(role) {
		role = RolePatient
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(p.Name),
		Email:        email,
		Phone:        strings.TrimSpace(p.Phone),
		Address:      strings.TrimSpace(p.Address),
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, address, role, health_notes, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.Phone, u.Address, u.Role, u.HealthNotes, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("users: register: %w", err)
	}
	return u, nil
}

// Authenticate verifies credentials and returns the account.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// GetByEmail fetches an account by email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetByID fetches an account by id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// ProfileUpdate carries the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	HealthNotes *string `json:"health_notes"`
}

// UpdateProfile applies a partial profile update and returns the fresh row.
func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileUpdate) (*User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($1, name),
			phone = COALESCE($2, phone),
			address = COALESCE($3, address),
			health_notes = COALESCE($4, health_notes)
		WHERE id = $5
		RETURNING `+userColumns, p.Name, p.Phone, p.Address, p.HealthNotes, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.Role, &u.HealthNotes, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: scan: %w", err)
	}
	return &u, nil
}

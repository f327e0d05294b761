package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "email", "phone", "address", "role",
		"health_notes", "password_hash", "created_at"})
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "Asha Nair", "asha@example.com", "+919900112233",
			"12 MG Road, Kochi", RolePatient, "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	u, err := store.Register(context.Background(), RegisterParams{
		Name:     "  Asha Nair ",
		Email:    " Asha@Example.COM ",
		Phone:    " +919900112233 ",
		Address:  " 12 MG Road, Kochi ",
		Password: "panchakarma",
		Role:     "superuser",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, RolePatient, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("panchakarma")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidation(t *testing.T) {
	store, _ := newMockStore(t)
	ctx := context.Background()

	_, err := store.Register(ctx, RegisterParams{Name: "A", Password: "longenough"})
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = store.Register(ctx, RegisterParams{Email: "a@b.c", Password: "longenough"})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = store.Register(ctx, RegisterParams{Name: "A", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooWeak)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := store.Register(context.Background(), RegisterParams{
		Name: "Asha", Email: "asha@example.com", Password: "panchakarma",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	store, mock := newMockStore(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("panchakarma"), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRows().AddRow(id, "Asha", "asha@example.com", "", "", RolePatient, "", string(hash), now))

	u, err := store.Authenticate(context.Background(), " Asha@Example.com ", "panchakarma")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(userRows().AddRow(id, "Asha", "asha@example.com", "", "", RolePatient, "", string(hash), now))

	_, err = store.Authenticate(context.Background(), "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(userRows())

	_, err = store.Authenticate(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrBadCredentials)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfilePartial(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now().UTC()
	phone := "+911234567890"

	mock.ExpectQuery("UPDATE users SET").
		WithArgs((*string)(nil), &phone, (*string)(nil), (*string)(nil), id).
		WillReturnRows(userRows().AddRow(id, "Asha", "asha@example.com", phone, "", RolePatient, "", "h", now))

	u, err := store.UpdateProfile(context.Background(), id, ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, u.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RolePatient))
	assert.True(t, ValidRole(RolePractitioner))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("root"))
	assert.False(t, ValidRole(""))
}

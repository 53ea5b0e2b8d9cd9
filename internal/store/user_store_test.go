package store

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userSelectRe = regexp.MustCompile(`SELECT id, name, email, password FROM users`)

func TestUserGetByEmailNormalizes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(userSelectRe.String()).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(1, "Alice", "alice@example.com", "$2a$10$hash"))

	s := NewUserStore(db)
	u, err := s.GetByEmail(context.Background(), "  Alice@EXAMPLE.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(userSelectRe.String()).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}))

	s := NewUserStore(db)
	_, err = s.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound, "absence must be distinguishable from failure")
}

func TestUserGetByIDNotFoundVsFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(userSelectRe.String()).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}))
	mock.ExpectQuery(userSelectRe.String()).
		WithArgs(int64(9)).
		WillReturnError(assert.AnError)

	s := NewUserStore(db)

	_, err = s.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestUserCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("Bob", "bob@example.com", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	s := NewUserStore(db)
	u, err := s.Create(context.Background(), "Bob", "Bob@Example.com", "$2a$10$hash")
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	s := NewUserStore(db)
	_, err = s.Create(context.Background(), "Bob", "bob@example.com", "x")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

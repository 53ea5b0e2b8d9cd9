package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// User mirrors the 'users' table. Password holds whatever the caller
// stored (a bcrypt hash in this application); the store treats it as
// opaque.
type User struct {
	ID       int64
	Name     string
	Email    string
	Password string
}

type UserStore struct{ DB *sql.DB }

func NewUserStore(db *sql.DB) *UserStore { return &UserStore{DB: db} }

// GetByEmail fetches a user by normalized email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password FROM users WHERE email = $1 LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, name, email, password FROM users WHERE id = $1 LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// Create inserts a user and returns it with the generated ID. The email
// is normalized before binding; the password is stored as given. A
// duplicate email surfaces as ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, name, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u := User{Name: name, Email: email, Password: password}
	err := s.DB.QueryRowContext(ctx,
		"INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id",
		name, email, password).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vedic_counter/internal/models"
)

// ErrUsernameTaken is returned by Create when the name is already registered.
var ErrUsernameTaken = errors.New("username already taken")

// UserRepository keeps the accounts that may drive the counter.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, password_hash FROM users WHERE username = ?`

	// sqlite reports duplicates as "UNIQUE constraint failed: users.username"
	uniqueViolation = "UNIQUE constraint failed"
)

// Create registers a user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), uniqueViolation) {
			return 0, fmt.Errorf("%w: %q", ErrUsernameTaken, username)
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for user %q: %w", username, err)
	}
	return int(id), nil
}

// GetByUsername returns (nil, nil) when no such user exists.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}

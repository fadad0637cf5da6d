package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUsers retrieves all users ordered by username.
func (r *UserRepository) GetUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, email, created_at FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users table: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users table: %w", err)
	}

	return users, nil
}

// GetUser retrieves a user by ID.
// Returns ErrUserNotFound if no user with the given ID exists.
func (r *UserRepository) GetUser(ctx context.Context, id string) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, email, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// InsertUser creates a user. ID and CreatedAt are assigned when unset.
// Returns ErrDuplicateEntry if the username or email is taken.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, FormatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func scanUser(s scanner) (model.User, error) {
	var u model.User
	var createdAt string

	err := s.Scan(&u.ID, &u.Username, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	if u.CreatedAt, err = parseStoredTime("created_at", createdAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}

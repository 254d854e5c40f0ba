// Package repository provides data persistence implementations for user
// entities. The default store is in-process memory; PostgreSQL and MySQL
// variants persist accounts across restarts.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/wopihost/internal/user/domain"

	apperrors "github.com/allisson/wopihost/internal/errors"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, secret, is_active, permissions, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Secret,
		user.IsActive,
		int16(user.Permissions),
		user.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Update modifies an existing user
func (r *PostgreSQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = $1, secret = $2, is_active = $3, permissions = $4
			  WHERE id = $5`

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Name,
		user.Secret,
		user.IsActive,
		int16(user.Permissions),
		user.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read update result")
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Get retrieves a user by ID
func (r *PostgreSQLUserRepository) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	var permissions int16

	query := `SELECT id, name, secret, is_active, permissions, created_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Secret, &user.IsActive, &permissions, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}

	user.Permissions = permissionFromStored(permissions)
	return &user, nil
}

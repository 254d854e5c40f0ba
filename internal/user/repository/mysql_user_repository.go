package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/wopihost/internal/user/domain"

	apperrors "github.com/allisson/wopihost/internal/errors"
)

// MySQLUserRepository handles user persistence for MySQL. UUIDs are stored
// as CHAR(36) to keep rows human-readable in ad hoc queries.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, secret, is_active, permissions, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID.String(),
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
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = ?, secret = ?, is_active = ?, permissions = ?
			  WHERE id = ?`

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Name,
		user.Secret,
		user.IsActive,
		int16(user.Permissions),
		user.ID.String(),
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
func (r *MySQLUserRepository) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	var rawID string
	var permissions int16

	query := `SELECT id, name, secret, is_active, permissions, created_at
			  FROM users WHERE id = ?`

	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &user.Name, &user.Secret, &user.IsActive, &permissions, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}

	user.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse stored user id")
	}

	user.Permissions = permissionFromStored(permissions)
	return &user, nil
}

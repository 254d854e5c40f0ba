package repository

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/allisson/wopihost/internal/errors"
	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
)

// PostgreSQLLockRepository implements lock persistence for PostgreSQL.
// Atomicity of insert-if-absent and compare-and-swap comes from single-row
// conditional statements; no explicit transactions are needed.
type PostgreSQLLockRepository struct {
	db *sql.DB
}

// NewPostgreSQLLockRepository creates a PostgreSQL lock repository.
func NewPostgreSQLLockRepository(db *sql.DB) *PostgreSQLLockRepository {
	return &PostgreSQLLockRepository{db: db}
}

// Get returns the record for the resource, or ErrLockNotFound.
func (p *PostgreSQLLockRepository) Get(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error) {
	query := `SELECT resource_id, lock_id, created_at FROM locks WHERE resource_id = $1`

	record := &locksDomain.LockRecord{}
	err := p.db.QueryRowContext(ctx, query, resourceID).
		Scan(&record.ResourceID, &record.LockID, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, locksDomain.ErrLockNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get lock")
	}

	return record, nil
}

// InsertIfAbsent stores the record only if no record exists for its resource.
func (p *PostgreSQLLockRepository) InsertIfAbsent(ctx context.Context, record *locksDomain.LockRecord) (bool, error) {
	query := `INSERT INTO locks (resource_id, lock_id, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (resource_id) DO NOTHING`

	result, err := p.db.ExecContext(ctx, query, record.ResourceID, record.LockID, record.CreatedAt)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to insert lock")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read insert result")
	}
	return affected == 1, nil
}

// CompareAndSwap replaces the stored record only if it still equals expected.
func (p *PostgreSQLLockRepository) CompareAndSwap(
	ctx context.Context,
	expected *locksDomain.LockRecord,
	updated *locksDomain.LockRecord,
) (bool, error) {
	query := `UPDATE locks
			  SET lock_id = $1, created_at = $2
			  WHERE resource_id = $3 AND lock_id = $4 AND created_at = $5`

	result, err := p.db.ExecContext(
		ctx,
		query,
		updated.LockID,
		updated.CreatedAt,
		expected.ResourceID,
		expected.LockID,
		expected.CreatedAt,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to swap lock")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read swap result")
	}
	return affected == 1, nil
}

// Remove deletes any record for the resource. Returns whether one existed.
func (p *PostgreSQLLockRepository) Remove(ctx context.Context, resourceID string) (bool, error) {
	query := `DELETE FROM locks WHERE resource_id = $1`

	result, err := p.db.ExecContext(ctx, query, resourceID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to remove lock")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read remove result")
	}
	return affected == 1, nil
}

// RemoveIfMatches deletes the record only if it still equals expected.
func (p *PostgreSQLLockRepository) RemoveIfMatches(ctx context.Context, expected *locksDomain.LockRecord) (bool, error) {
	query := `DELETE FROM locks WHERE resource_id = $1 AND lock_id = $2 AND created_at = $3`

	result, err := p.db.ExecContext(ctx, query, expected.ResourceID, expected.LockID, expected.CreatedAt)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to remove lock")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read remove result")
	}
	return affected == 1, nil
}

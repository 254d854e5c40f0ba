package repository

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/allisson/wopihost/internal/errors"
	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
)

// MySQLLockRepository implements lock persistence for MySQL. Timestamps are
// stored as DATETIME(6) to preserve the microsecond precision the
// compare-and-swap predicate relies on.
type MySQLLockRepository struct {
	db *sql.DB
}

// NewMySQLLockRepository creates a MySQL lock repository.
func NewMySQLLockRepository(db *sql.DB) *MySQLLockRepository {
	return &MySQLLockRepository{db: db}
}

// Get returns the record for the resource, or ErrLockNotFound.
func (m *MySQLLockRepository) Get(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error) {
	query := `SELECT resource_id, lock_id, created_at FROM locks WHERE resource_id = ?`

	record := &locksDomain.LockRecord{}
	err := m.db.QueryRowContext(ctx, query, resourceID).
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
func (m *MySQLLockRepository) InsertIfAbsent(ctx context.Context, record *locksDomain.LockRecord) (bool, error) {
	query := `INSERT IGNORE INTO locks (resource_id, lock_id, created_at) VALUES (?, ?, ?)`

	result, err := m.db.ExecContext(ctx, query, record.ResourceID, record.LockID, record.CreatedAt)
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
func (m *MySQLLockRepository) CompareAndSwap(
	ctx context.Context,
	expected *locksDomain.LockRecord,
	updated *locksDomain.LockRecord,
) (bool, error) {
	query := `UPDATE locks
			  SET lock_id = ?, created_at = ?
			  WHERE resource_id = ? AND lock_id = ? AND created_at = ?`

	result, err := m.db.ExecContext(
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
func (m *MySQLLockRepository) Remove(ctx context.Context, resourceID string) (bool, error) {
	query := `DELETE FROM locks WHERE resource_id = ?`

	result, err := m.db.ExecContext(ctx, query, resourceID)
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
func (m *MySQLLockRepository) RemoveIfMatches(ctx context.Context, expected *locksDomain.LockRecord) (bool, error) {
	query := `DELETE FROM locks WHERE resource_id = ? AND lock_id = ? AND created_at = ?`

	result, err := m.db.ExecContext(ctx, query, expected.ResourceID, expected.LockID, expected.CreatedAt)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to remove lock")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read remove result")
	}
	return affected == 1, nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
)

// The MySQL variant shares its shape with the PostgreSQL repository; these
// tests cover the dialect differences (INSERT IGNORE, ? placeholders).
func TestMySQLLockRepository(t *testing.T) {
	ctx := context.Background()
	record := &locksDomain.LockRecord{
		ResourceID: "file-1",
		LockID:     "L1",
		CreatedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Success_InsertIgnoreReportsExisting", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT IGNORE INTO locks`).
			WithArgs(record.ResourceID, record.LockID, record.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewMySQLLockRepository(db)
		inserted, err := repo.InsertIfAbsent(ctx, record)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_CompareAndSwap", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		updated := &locksDomain.LockRecord{
			ResourceID: "file-1",
			LockID:     "L2",
			CreatedAt:  record.CreatedAt.Add(time.Minute),
		}
		mock.ExpectExec(`UPDATE locks`).
			WithArgs(updated.LockID, updated.CreatedAt, record.ResourceID, record.LockID, record.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMySQLLockRepository(db)
		swapped, err := repo.CompareAndSwap(ctx, record, updated)
		require.NoError(t, err)
		assert.True(t, swapped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_Get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT resource_id, lock_id, created_at FROM locks`).
			WithArgs("file-1").
			WillReturnRows(sqlmock.NewRows([]string{"resource_id", "lock_id", "created_at"}).
				AddRow(record.ResourceID, record.LockID, record.CreatedAt))

		repo := NewMySQLLockRepository(db)
		got, err := repo.Get(ctx, "file-1")
		require.NoError(t, err)
		assert.Equal(t, "L1", got.LockID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

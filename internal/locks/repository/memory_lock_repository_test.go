package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
)

func TestMemoryLockRepository(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("Success_InsertAndGet", func(t *testing.T) {
		repo := NewMemoryLockRepository()

		record := &locksDomain.LockRecord{ResourceID: "file-1", LockID: "L1", CreatedAt: createdAt}
		inserted, err := repo.InsertIfAbsent(ctx, record)
		require.NoError(t, err)
		assert.True(t, inserted)

		got, err := repo.Get(ctx, "file-1")
		require.NoError(t, err)
		assert.Equal(t, *record, *got)
	})

	t.Run("Error_GetMissingRecord", func(t *testing.T) {
		repo := NewMemoryLockRepository()

		_, err := repo.Get(ctx, "file-1")
		assert.ErrorIs(t, err, locksDomain.ErrLockNotFound)
	})

	t.Run("Success_InsertIfAbsentKeepsExisting", func(t *testing.T) {
		repo := NewMemoryLockRepository()

		first := &locksDomain.LockRecord{ResourceID: "file-1", LockID: "L1", CreatedAt: createdAt}
		_, err := repo.InsertIfAbsent(ctx, first)
		require.NoError(t, err)

		second := &locksDomain.LockRecord{ResourceID: "file-1", LockID: "L2", CreatedAt: createdAt}
		inserted, err := repo.InsertIfAbsent(ctx, second)
		require.NoError(t, err)
		assert.False(t, inserted)

		got, err := repo.Get(ctx, "file-1")
		require.NoError(t, err)
		assert.Equal(t, "L1", got.LockID)
	})

	t.Run("Success_CompareAndSwap", func(t *testing.T) {
		repo := NewMemoryLockRepository()

		record := &locksDomain.LockRecord{ResourceID: "file-1", LockID: "L1", CreatedAt: createdAt}
		_, err := repo.InsertIfAbsent(ctx, record)
		require.NoError(t, err)

		updated := &locksDomain.LockRecord{ResourceID: "file-1", LockID: "L2", CreatedAt: createdAt.Add(time.Minute)}
		swapped, err := repo.CompareAndSwap(ctx, record, updated)
		require.NoError(t, err)
		assert.True(t, swapped)

		// The original record no longer matches.
		swapped, err = repo.CompareAndSwap(ctx, record, updated)
		require.NoError(t, err)
		assert.False(t, swapped)
	})

	t.Run("Success_RemoveIfMatchesIgnoresChangedRecord", func(t *testing.T) {
		repo := NewMemoryLockRepository()

		record := &locksDomain.LockRecord{ResourceID: "file-1", LockID: "L1", CreatedAt: createdAt}
		_, err := repo.InsertIfAbsent(ctx, record)
		require.NoError(t, err)

		stale := &locksDomain.LockRecord{ResourceID: "file-1", LockID: "L0", CreatedAt: createdAt}
		removed, err := repo.RemoveIfMatches(ctx, stale)
		require.NoError(t, err)
		assert.False(t, removed)

		removed, err = repo.RemoveIfMatches(ctx, record)
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("Success_ConcurrentInsertHasOneWinner", func(t *testing.T) {
		repo := NewMemoryLockRepository()

		const callers = 50
		var wg sync.WaitGroup
		var wins int64
		var mu sync.Mutex

		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				record := &locksDomain.LockRecord{
					ResourceID: "file-1",
					LockID:     string(rune('A' + i%26)),
					CreatedAt:  createdAt,
				}
				inserted, err := repo.InsertIfAbsent(ctx, record)
				assert.NoError(t, err)
				if inserted {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), wins)
	})
}

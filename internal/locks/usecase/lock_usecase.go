package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
)

// DefaultLockTTL is the lock lifetime applied when no TTL is configured.
const DefaultLockTTL = 30 * time.Minute

type lockUseCase struct {
	repository LockRepository
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewLockUseCase creates a lock use case. A non-positive ttl falls back to
// DefaultLockTTL.
func NewLockUseCase(repository LockRepository, ttl time.Duration, logger *slog.Logger) LockUseCase {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &lockUseCase{
		repository: repository,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// activeLock returns the current non-expired record for the resource, or nil
// when the resource is unlocked. Expired records are evicted on sight; the
// eviction is conditional on the record being unchanged so a concurrent
// re-lock is never removed.
func (l *lockUseCase) activeLock(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error) {
	record, err := l.repository.Get(ctx, resourceID)
	if err != nil {
		if errors.Is(err, locksDomain.ErrLockNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !record.IsExpired(l.ttl, l.now()) {
		return record, nil
	}

	evicted, err := l.repository.RemoveIfMatches(ctx, record)
	if err != nil {
		return nil, err
	}
	if evicted {
		l.logger.DebugContext(ctx, "expired lock evicted",
			slog.String("resource_id", resourceID),
			slog.Time("created_at", record.CreatedAt),
		)
		return nil, nil
	}

	// The record changed under us; report whatever is current now.
	return l.activeLock(ctx, resourceID)
}

func (l *lockUseCase) TryGetLock(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error) {
	return l.activeLock(ctx, resourceID)
}

func (l *lockUseCase) AddLock(ctx context.Context, resourceID, lockID string) (*locksDomain.LockRecord, error) {
	for {
		current, err := l.activeLock(ctx, resourceID)
		if err != nil {
			return nil, err
		}
		if current != nil {
			return nil, locksDomain.NewConflictError(current.LockID)
		}

		record := &locksDomain.LockRecord{
			ResourceID: resourceID,
			LockID:     lockID,
			CreatedAt:  l.now(),
		}
		inserted, err := l.repository.InsertIfAbsent(ctx, record)
		if err != nil {
			return nil, err
		}
		if inserted {
			return record, nil
		}

		// Lost the race to another caller; re-read to report their lock id.
		// The loser may still win if the racing record already expired.
	}
}

func (l *lockUseCase) RefreshLock(ctx context.Context, resourceID, lockID, newLockID string) (*locksDomain.LockRecord, error) {
	current, err := l.activeLock(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, locksDomain.NewConflictError("")
	}
	if !current.Matches(lockID) {
		return nil, locksDomain.NewConflictError(current.LockID)
	}

	updated := &locksDomain.LockRecord{
		ResourceID: resourceID,
		LockID:     lockID,
		CreatedAt:  l.now(),
	}
	if newLockID != "" {
		updated.LockID = newLockID
	}

	swapped, err := l.repository.CompareAndSwap(ctx, current, updated)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// The lock changed between read and swap; treat the loss like any
		// other mismatch and report what is held now.
		racing, err := l.activeLock(ctx, resourceID)
		if err != nil {
			return nil, err
		}
		if racing == nil {
			return nil, locksDomain.NewConflictError("")
		}
		return nil, locksDomain.NewConflictError(racing.LockID)
	}

	return updated, nil
}

func (l *lockUseCase) Unlock(ctx context.Context, resourceID, lockID string) error {
	current, err := l.activeLock(ctx, resourceID)
	if err != nil {
		return err
	}
	if current == nil {
		return locksDomain.NewConflictError("")
	}
	if !current.Matches(lockID) {
		return locksDomain.NewConflictError(current.LockID)
	}

	removed, err := l.repository.RemoveIfMatches(ctx, current)
	if err != nil {
		return err
	}
	if !removed {
		racing, err := l.activeLock(ctx, resourceID)
		if err != nil {
			return err
		}
		if racing == nil {
			return locksDomain.NewConflictError("")
		}
		return locksDomain.NewConflictError(racing.LockID)
	}

	return nil
}

func (l *lockUseCase) RemoveLock(ctx context.Context, resourceID string) (bool, error) {
	return l.repository.Remove(ctx, resourceID)
}

func (l *lockUseCase) CheckWrite(ctx context.Context, resourceID, lockID string) error {
	current, err := l.activeLock(ctx, resourceID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}
	if !current.Matches(lockID) {
		return locksDomain.NewConflictError(current.LockID)
	}
	return nil
}

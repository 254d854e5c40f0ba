package usecase

import (
	"context"
	"time"

	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
	"github.com/allisson/wopihost/internal/metrics"
)

// lockUseCaseWithMetrics decorates LockUseCase with metrics instrumentation.
type lockUseCaseWithMetrics struct {
	next    LockUseCase
	metrics metrics.BusinessMetrics
}

// NewLockUseCaseWithMetrics wraps a LockUseCase with metrics recording.
func NewLockUseCaseWithMetrics(useCase LockUseCase, m metrics.BusinessMetrics) LockUseCase {
	return &lockUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (l *lockUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "locks", operation, status)
	l.metrics.RecordDuration(ctx, "locks", operation, time.Since(start), status)
}

// TryGetLock records metrics for lock queries.
func (l *lockUseCaseWithMetrics) TryGetLock(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error) {
	start := time.Now()
	record, err := l.next.TryGetLock(ctx, resourceID)
	l.record(ctx, "get", start, err)
	return record, err
}

// AddLock records metrics for lock acquisition.
func (l *lockUseCaseWithMetrics) AddLock(ctx context.Context, resourceID, lockID string) (*locksDomain.LockRecord, error) {
	start := time.Now()
	record, err := l.next.AddLock(ctx, resourceID, lockID)
	l.record(ctx, "add", start, err)
	return record, err
}

// RefreshLock records metrics for lock refreshes.
func (l *lockUseCaseWithMetrics) RefreshLock(ctx context.Context, resourceID, lockID, newLockID string) (*locksDomain.LockRecord, error) {
	start := time.Now()
	record, err := l.next.RefreshLock(ctx, resourceID, lockID, newLockID)
	l.record(ctx, "refresh", start, err)
	return record, err
}

// Unlock records metrics for lock release.
func (l *lockUseCaseWithMetrics) Unlock(ctx context.Context, resourceID, lockID string) error {
	start := time.Now()
	err := l.next.Unlock(ctx, resourceID, lockID)
	l.record(ctx, "unlock", start, err)
	return err
}

// RemoveLock records metrics for unconditional lock removal.
func (l *lockUseCaseWithMetrics) RemoveLock(ctx context.Context, resourceID string) (bool, error) {
	start := time.Now()
	removed, err := l.next.RemoveLock(ctx, resourceID)
	l.record(ctx, "remove", start, err)
	return removed, err
}

// CheckWrite records metrics for write authorization checks.
func (l *lockUseCaseWithMetrics) CheckWrite(ctx context.Context, resourceID, lockID string) error {
	start := time.Now()
	err := l.next.CheckWrite(ctx, resourceID, lockID)
	l.record(ctx, "check_write", start, err)
	return err
}

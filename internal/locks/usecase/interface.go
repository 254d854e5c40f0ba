// Package usecase implements the locking protocol used to coordinate
// exclusive editing access: acquire, query, refresh, and release, with lazy
// expiry of stale locks.
package usecase

import (
	"context"

	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
)

// LockRepository provides atomic per-resource storage primitives for lock
// records. Implementations must make each operation atomic for a single
// resource id; operations on different resource ids are independent.
type LockRepository interface {
	// Get returns the record for the resource, or ErrLockNotFound. Expiry is
	// not evaluated here; that is the use case's concern.
	Get(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error)

	// InsertIfAbsent stores the record only if the resource has no record.
	// Returns false, without modifying anything, when one already exists.
	InsertIfAbsent(ctx context.Context, record *locksDomain.LockRecord) (bool, error)

	// CompareAndSwap replaces the stored record only if it still equals
	// expected. Returns false when it changed concurrently or is gone.
	CompareAndSwap(ctx context.Context, expected, updated *locksDomain.LockRecord) (bool, error)

	// Remove deletes any record for the resource. Returns whether one existed.
	Remove(ctx context.Context, resourceID string) (bool, error)

	// RemoveIfMatches deletes the record only if it still equals expected.
	RemoveIfMatches(ctx context.Context, expected *locksDomain.LockRecord) (bool, error)
}

// LockUseCase implements the locking protocol over a LockRepository.
//
// Conflicts (acquiring a held resource, presenting a mismatched lock id) are
// expected business outcomes reported as *domain.ConflictError carrying the
// current lock id, never as faults. Expired locks are never observable:
// any operation that encounters one evicts it and proceeds as if the resource
// were unlocked.
type LockUseCase interface {
	// TryGetLock returns the active lock for the resource, or nil when the
	// resource is unlocked. Encountering an expired record evicts it.
	TryGetLock(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error)

	// AddLock acquires a lock on an unlocked resource. Returns the created
	// record, or a ConflictError carrying the current lock id when the
	// resource is already locked.
	AddLock(ctx context.Context, resourceID, lockID string) (*locksDomain.LockRecord, error)

	// RefreshLock extends the lock's lifetime. The presented lockID must
	// match the stored one. A non-empty newLockID additionally replaces the
	// identifier (WOPI UnlockAndRelock). The swap is a compare-and-swap
	// against the record as read; losing the race is a conflict.
	RefreshLock(ctx context.Context, resourceID, lockID, newLockID string) (*locksDomain.LockRecord, error)

	// Unlock releases the lock. The presented lockID must match the stored
	// one; unlocking an unlocked resource is a conflict with an empty
	// current lock id.
	Unlock(ctx context.Context, resourceID, lockID string) error

	// RemoveLock unconditionally removes any lock for the resource,
	// returning whether one existed. Administrative escape hatch; protocol
	// callers use Unlock.
	RemoveLock(ctx context.Context, resourceID string) (bool, error)

	// CheckWrite authorizes a content write: permitted when the resource is
	// unlocked or the presented lockID matches the active lock. Returns a
	// ConflictError otherwise.
	CheckWrite(ctx context.Context, resourceID, lockID string) error
}

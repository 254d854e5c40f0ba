// Package repository provides lock record stores. The default store is
// in-process memory; PostgreSQL and MySQL variants allow lock state to
// survive restarts and be shared between hosts without changing the
// store contract.
package repository

import (
	"context"
	"sync"

	locksDomain "github.com/allisson/wopihost/internal/locks/domain"
)

// MemoryLockRepository implements lock persistence in process memory.
//
// Mutations are scoped to a single resource key via sync.Map's
// compare-and-swap primitives; there is no lock spanning all resources, so
// operations on different resources never contend.
type MemoryLockRepository struct {
	records sync.Map // resource id -> locksDomain.LockRecord
}

// NewMemoryLockRepository creates an empty in-memory lock store.
func NewMemoryLockRepository() *MemoryLockRepository {
	return &MemoryLockRepository{}
}

// Get returns the record for the resource, or ErrLockNotFound.
func (m *MemoryLockRepository) Get(ctx context.Context, resourceID string) (*locksDomain.LockRecord, error) {
	value, ok := m.records.Load(resourceID)
	if !ok {
		return nil, locksDomain.ErrLockNotFound
	}

	record := value.(locksDomain.LockRecord)
	return &record, nil
}

// InsertIfAbsent stores the record only if no record exists for its resource.
// Returns false without modifying the store when a record already exists.
func (m *MemoryLockRepository) InsertIfAbsent(ctx context.Context, record *locksDomain.LockRecord) (bool, error) {
	_, loaded := m.records.LoadOrStore(record.ResourceID, *record)
	return !loaded, nil
}

// CompareAndSwap replaces the stored record only if it still equals expected.
// Returns false when the record changed concurrently or no longer exists.
func (m *MemoryLockRepository) CompareAndSwap(
	ctx context.Context,
	expected *locksDomain.LockRecord,
	updated *locksDomain.LockRecord,
) (bool, error) {
	return m.records.CompareAndSwap(expected.ResourceID, *expected, *updated), nil
}

// Remove deletes any record for the resource. Returns whether one existed.
func (m *MemoryLockRepository) Remove(ctx context.Context, resourceID string) (bool, error) {
	_, loaded := m.records.LoadAndDelete(resourceID)
	return loaded, nil
}

// RemoveIfMatches deletes the record only if it still equals expected. Used
// for lazy expiry eviction so a concurrent re-lock is never clobbered.
func (m *MemoryLockRepository) RemoveIfMatches(ctx context.Context, expected *locksDomain.LockRecord) (bool, error) {
	return m.records.CompareAndDelete(expected.ResourceID, *expected), nil
}

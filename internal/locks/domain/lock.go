// Package domain defines the lock model used to coordinate exclusive editing
// access to a resource.
//
// A resource holds at most one lock at a time. Locks carry an opaque,
// client-chosen identifier and a bounded lifetime: a lock that has not been
// refreshed within the TTL is void and is evicted lazily the next time the
// resource is consulted.
package domain

import "time"

// LockRecord is the lock state for a single resource.
type LockRecord struct {
	ResourceID string    // Identifier of the locked resource
	LockID     string    // Opaque client-chosen lock identifier
	CreatedAt  time.Time // Acquisition or last refresh time
}

// IsExpired reports whether the record is void at the given instant for the
// given TTL.
func (r *LockRecord) IsExpired(ttl time.Duration, now time.Time) bool {
	return now.Sub(r.CreatedAt) > ttl
}

// Matches reports whether the presented lock identifier equals the stored one.
func (r *LockRecord) Matches(lockID string) bool {
	return r.LockID == lockID
}

// Package memo provides a generic expiring-memoized value holder. A value is
// recomputed lazily once its validity window has elapsed, and concurrent
// callers never trigger duplicate recomputation: at most one refresh is in
// flight at any time, with all waiters receiving its result.
package memo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// RefreshFunc computes a fresh value and the instant until which it is valid.
type RefreshFunc[T any] func(ctx context.Context) (value T, validUntil time.Time, err error)

// Expiring holds a lazily computed value with an expiry. The zero value is not
// usable; create instances with NewExpiring.
type Expiring[T any] struct {
	mu         sync.RWMutex
	value      T
	validUntil time.Time
	populated  bool

	group singleflight.Group
}

// NewExpiring creates an empty holder. The first Get always invokes refresh.
func NewExpiring[T any]() *Expiring[T] {
	return &Expiring[T]{}
}

// Get returns the cached value if it is still valid, otherwise invokes refresh
// exactly once (even under concurrent callers) and caches its result.
//
// If refresh fails, the previously cached value is preserved and the error is
// returned to the caller; a later Get retries the refresh. Use Peek to read
// the last good value regardless of expiry.
func (e *Expiring[T]) Get(ctx context.Context, refresh RefreshFunc[T]) (T, error) {
	e.mu.RLock()
	if e.populated && time.Now().Before(e.validUntil) {
		value := e.value
		e.mu.RUnlock()
		return value, nil
	}
	e.mu.RUnlock()

	// Serialize the recomputation; concurrent expired readers share one call.
	result, err, _ := e.group.Do("refresh", func() (any, error) {
		// Re-check under the write lock: another caller may have refreshed
		// between the read-lock check and this singleflight execution.
		e.mu.Lock()
		if e.populated && time.Now().Before(e.validUntil) {
			value := e.value
			e.mu.Unlock()
			return value, nil
		}
		e.mu.Unlock()

		value, validUntil, err := refresh(ctx)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.value = value
		e.validUntil = validUntil
		e.populated = true
		e.mu.Unlock()

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Peek returns the last successfully computed value, ignoring expiry.
// Returns false if no value has ever been computed.
func (e *Expiring[T]) Peek() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value, e.populated
}

// Invalidate forces the next Get to recompute regardless of expiry.
func (e *Expiring[T]) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.validUntil = time.Time{}
}

package domain

import (
	"fmt"

	apperrors "github.com/allisson/wopihost/internal/errors"
)

// ErrLockNotFound indicates no lock record exists for the resource.
var ErrLockNotFound = apperrors.New("lock not found")

// ConflictError is the expected business outcome of a lock operation that
// lost to the current holder: acquiring an already-locked resource, or
// presenting a lock identifier that does not match the stored one. It carries
// the current lock identifier so the caller can echo it back to the client
// (WOPI does so via the X-WOPI-Lock response header).
//
// ConflictError unwraps to apperrors.ErrConflict so the HTTP layer maps it to
// a 409 without special-casing.
type ConflictError struct {
	// CurrentLockID is the identifier of the lock currently held on the
	// resource. Empty when the conflict is a missing lock where one was
	// required.
	CurrentLockID string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.CurrentLockID == "" {
		return "lock conflict: no lock held"
	}
	return fmt.Sprintf("lock conflict: held by %q", e.CurrentLockID)
}

// Unwrap lets errors.Is(err, apperrors.ErrConflict) succeed.
func (e *ConflictError) Unwrap() error {
	return apperrors.ErrConflict
}

// NewConflictError creates a ConflictError carrying the current lock id.
func NewConflictError(currentLockID string) error {
	return &ConflictError{CurrentLockID: currentLockID}
}

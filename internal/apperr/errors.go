// Package apperr defines the sentinel errors shared across the engine.
package apperr

import "errors"

var (
	// ErrNotAuthenticated means no principal is present; mutating
	// operations are no-ops.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRemoteRejected means the remote write failed. The local
	// optimistic state is kept and the error surfaced for retry.
	ErrRemoteRejected = errors.New("remote rejected")

	// ErrNotFound means a mutation referenced a stale identity.
	ErrNotFound = errors.New("not found")

	// ErrValidation means input was rejected before any mutation.
	ErrValidation = errors.New("validation failed")
)

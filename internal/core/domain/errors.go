package domain

import "errors"

// Synchronization errors surfaced by the registry repository and the remote
// store client.
var (
	// ErrRemoteUnavailable means the remote document store could not be
	// reached, or answered with a non-success status.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrVersionConflict means the write was rejected because the held
	// version token is stale. The caller must Reload and redo; the registry
	// never merges or retries a conflicted write on its own.
	ErrVersionConflict = errors.New("version conflict: token is stale")

	// ErrNotPersistent is returned for writes accepted in memory while the
	// registry runs on fallback data. The change is visible but not durable.
	ErrNotPersistent = errors.New("registry degraded: change not persisted")

	// ErrStillLoading is returned for writes attempted while the initial
	// load is in flight.
	ErrStillLoading = errors.New("registry still loading")

	ErrUnknownCollection = errors.New("unknown collection")
)

// Domain errors.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrQuoteNotFound      = errors.New("quote not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrSeedUserProtected  = errors.New("seed admin user cannot be deleted")
)

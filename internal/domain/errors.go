package domain

import "errors"

// Sentinel error kinds. Adapters wrap their transport errors with these so
// callers can branch with errors.Is.
var (
	// ErrStoreUnavailable is transient; the event is retried on the next pass.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound means the event vanished between read and write.
	ErrNotFound = errors.New("event not found")
	// ErrDeliveryFailed means the notification was not confirmed sent.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrTenantNotFound means no registered tenant owns the channel.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrInvalidInput is returned for malformed user commands.
	ErrInvalidInput = errors.New("invalid input")
)

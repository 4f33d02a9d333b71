package history

import "errors"

// Domain errors for history store operations.
var (
	// ErrRecordNotFound is returned when a record does not exist.
	ErrRecordNotFound = errors.New("history record not found")

	// ErrInvalidRecordID is returned when a record ID is invalid (e.g., empty).
	ErrInvalidRecordID = errors.New("invalid history record ID")

	// ErrConnectionFailed is returned when connection to the store backend fails.
	ErrConnectionFailed = errors.New("history store connection failed")
)

package errors

import "errors"

// Sentinel errors for the whole application. Wrap with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	ErrNotFound     = errors.New("NOT FOUND")
	ErrInvalidInput = errors.New("INVALID INPUT")
	ErrAuth         = errors.New("UNAUTHORIZED")
	ErrAccessDenied = errors.New("ACCESS DENIED")
	ErrConflict     = errors.New("CONFLICT")
	ErrInternal     = errors.New("INTERNAL")

	// Analytics taxonomy. These surface to the caller unmodified;
	// the engine never retries.
	ErrInvalidRange     = errors.New("INVALID RANGE")
	ErrUnknownUser      = errors.New("UNKNOWN USER")
	ErrStoreUnavailable = errors.New("STORE UNAVAILABLE")
)

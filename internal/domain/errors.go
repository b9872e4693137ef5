package domain

import "errors"

// Sentinel errors shared across services and controllers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller is not allowed to act on the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates malformed input rejected before any write.
	ErrValidation = errors.New("invalid input")
	// ErrCalendarUnavailable indicates busy intervals could not be fetched.
	// Callers fail closed: every slot in the affected batch is marked
	// unavailable and the degraded state is surfaced to the user.
	ErrCalendarUnavailable = errors.New("calendar source unavailable")
)

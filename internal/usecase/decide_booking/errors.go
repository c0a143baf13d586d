package decide_booking

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidTransition  = errors.New("booking can no longer be decided")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

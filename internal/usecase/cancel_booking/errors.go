package cancel_booking

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrAccessDenied         = errors.New("access denied")
	ErrCancellationDisabled = errors.New("cancellations are disabled for this professional")
	ErrInvalidTransition    = errors.New("booking can no longer be cancelled")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

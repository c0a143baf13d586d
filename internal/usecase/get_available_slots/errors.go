package get_available_slots

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

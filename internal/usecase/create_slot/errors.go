package create_slot

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrSlotOverlap          = errors.New("slot overlaps an existing slot")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

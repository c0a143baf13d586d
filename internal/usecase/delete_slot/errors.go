package delete_slot

import "errors"

var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrSlotInUse          = errors.New("slot has an active booking")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotOverlap возвращается, когда новый слот пересекается
	// с существующим неотменённым слотом того же профессионала
	ErrSlotOverlap = errors.New("slot.repository: slot overlaps an existing slot")

	// ErrSlotNotAvailable возвращается при попытке зарезервировать слот,
	// который уже не в статусе available (основная защита от двойного бронирования)
	ErrSlotNotAvailable = errors.New("slot.repository: slot not available")

	// ErrInvalidTransition возвращается при попытке коммита слота,
	// который не находится в ожидаемом для перехода статусе
	ErrInvalidTransition = errors.New("slot.repository: invalid slot transition")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)

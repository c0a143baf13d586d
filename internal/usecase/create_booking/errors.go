package create_booking

import "errors"

var (
	// ErrProfessionalNotFound возвращается, когда профессионал не найден
	ErrProfessionalNotFound = errors.New("create_booking: professional not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	// или принадлежит другому профессионалу
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotConflict возвращается, когда слот уже зарезервирован или занят
	// Клиентская обёртка над ошибкой резервирования: "слот больше недоступен"
	ErrSlotConflict = errors.New("create_booking: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrStorageUnavailable возвращается при сбое хранилища
	// Транзакция при этом полностью откачена, состояние не изменено
	ErrStorageUnavailable = errors.New("create_booking: storage unavailable")
)

package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a client booking request for a time slot
type Booking struct {
	ID             int64
	SlotID         int64
	ProfessionalID int64

	// Клиент идентифицируется по email, аккаунт ему не нужен
	ClientName  string
	ClientEmail string
	ClientPhone string
	Service     string
	Notes       *string

	Status BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking is in a non-terminal state
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a final state
// Rejected and cancelled bookings never transition again
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCancelled
}

// CanBeDecided returns true if the professional may approve or reject the booking
func (b *Booking) CanBeDecided() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// SlotStatusFor returns the slot status mirroring the booking status
// Invariant: a booking and its bound slot always correspond per this mapping
func (b *Booking) SlotStatusFor() SlotStatus {
	switch b.Status {
	case StatusPending:
		return SlotStatusPending
	case StatusConfirmed:
		return SlotStatusBooked
	default:
		return SlotStatusAvailable
	}
}

// BookingFilter фильтр для выборки бронирований профессионала
type BookingFilter struct {
	ProfessionalID  int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода по дате слота (опционально)
	EndDate         *time.Time     // Конец периода по дате слота (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отклонённые и отменённые бронирования
}

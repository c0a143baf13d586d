package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingRequested EventType = "booking.requested"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingRejected  EventType = "booking.rejected"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent событие, публикуемое после каждого успешного перехода
// пары бронирование/слот. Содержит снапшоты на момент перехода.
// Доставка (email/SMS/Telegram) выполняется внешним потребителем.
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Booking    Booking   `json:"booking"`
	Slot       TimeSlot  `json:"slot"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewBookingEvent создает событие со снапшотами бронирования и слота
func NewBookingEvent(eventType EventType, booking Booking, slot TimeSlot) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Booking:    booking,
		Slot:       slot,
		OccurredAt: time.Now().UTC(),
	}
}

package cancel_booking

import (
	"time"

	"github.com/glowbook/booking-service/internal/domain"
)

// Actor инициатор отмены
type Actor string

const (
	ActorClient       Actor = "client"
	ActorProfessional Actor = "professional"
)

// Request запрос на отмену бронирования
// ProfessionalID заполняется только когда отменяет профессионал
type Request struct {
	BookingID      int64
	Actor          Actor
	ProfessionalID int64
	Reason         string
}

// Response данные бронирования после отмены
type Response struct {
	ID                 int64                `json:"id"`
	SlotID             int64                `json:"slotId"`
	Status             domain.BookingStatus `json:"status"`
	CancellationReason *string              `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time           `json:"cancelledAt,omitempty"`
	SlotStatus         domain.SlotStatus    `json:"slotStatus"`
}

func newResponse(b *domain.Booking, s *domain.TimeSlot) *Response {
	return &Response{
		ID:                 b.ID,
		SlotID:             b.SlotID,
		Status:             b.Status,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		SlotStatus:         s.Status,
	}
}

package get_available_slots

import (
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/types"
)

// Request запрос расписания профессионала за период
// Owner=true для владельца расписания: ему видны все слоты независимо
// от настройки show_available_only
type Request struct {
	ProfessionalID int64
	From           *time.Time
	To             *time.Time
	Owner          bool
}

// Slot элемент расписания в ответе
type Slot struct {
	ID        int64             `json:"id"`
	Date      time.Time         `json:"date"`
	StartTime types.TimeString  `json:"startTime"`
	EndTime   types.TimeString  `json:"endTime"`
	Status    domain.SlotStatus `json:"status"`
	BookingID *int64            `json:"bookingId,omitempty"`
}

// Response список слотов, упорядоченный по дате и времени начала
type Response struct {
	ProfessionalID int64  `json:"professionalId"`
	Slots          []Slot `json:"slots"`
}

func newResponse(professionalID int64, slots []*domain.TimeSlot, owner bool) *Response {
	items := make([]Slot, 0, len(slots))
	for _, s := range slots {
		item := Slot{
			ID:        s.ID,
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    s.Status,
		}
		// Привязка к бронированию видна только владельцу
		if owner {
			item.BookingID = s.BookingID
		}
		items = append(items, item)
	}
	return &Response{ProfessionalID: professionalID, Slots: items}
}

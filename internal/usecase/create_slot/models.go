package create_slot

import (
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/types"
)

// Request запрос на создание слота в расписании
type Request struct {
	ProfessionalID int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
}

// Response созданный слот
type Response struct {
	ID        int64             `json:"id"`
	Date      time.Time         `json:"date"`
	StartTime types.TimeString  `json:"startTime"`
	EndTime   types.TimeString  `json:"endTime"`
	Status    domain.SlotStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

func newResponse(s *domain.TimeSlot) *Response {
	return &Response{
		ID:        s.ID,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

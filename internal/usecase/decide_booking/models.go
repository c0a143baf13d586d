package decide_booking

import (
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/types"
)

// Decision решение профессионала по заявке
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Request запрос на решение по бронированию
type Request struct {
	BookingID      int64
	ProfessionalID int64
	Decision       Decision
}

// Response данные бронирования после решения
type Response struct {
	ID             int64                `json:"id"`
	SlotID         int64                `json:"slotId"`
	ProfessionalID int64                `json:"professionalId"`
	ClientName     string               `json:"clientName"`
	ClientEmail    string               `json:"clientEmail"`
	Service        string               `json:"service"`
	Status         domain.BookingStatus `json:"status"`
	Date           time.Time            `json:"date"`
	StartTime      types.TimeString     `json:"startTime"`
	EndTime        types.TimeString     `json:"endTime"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func newResponse(b *domain.Booking, s *domain.TimeSlot) *Response {
	return &Response{
		ID:             b.ID,
		SlotID:         b.SlotID,
		ProfessionalID: b.ProfessionalID,
		ClientName:     b.ClientName,
		ClientEmail:    b.ClientEmail,
		Service:        b.Service,
		Status:         b.Status,
		Date:           s.Date,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		UpdatedAt:      b.UpdatedAt,
	}
}

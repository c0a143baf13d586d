package create_booking

import (
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ProfessionalID int64   // ID профессионала
	SlotID         int64   // ID свободного слота
	ClientName     string  // Имя клиента
	ClientEmail    string  // Email клиента (ключ идентичности клиента)
	ClientPhone    string  // Телефон клиента
	Service        string  // Услуга, например "Hair Styling"
	Notes          *string // Дополнительные пожелания (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64
	SlotID         int64
	ProfessionalID int64
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	Service        string
	Notes          *string
	Status         string

	// Снапшот слота для подтверждающего экрана клиента
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	CreatedAt time.Time
}

func newResponse(b *domain.Booking, s *domain.TimeSlot) *Response {
	return &Response{
		ID:             b.ID,
		SlotID:         b.SlotID,
		ProfessionalID: b.ProfessionalID,
		ClientName:     b.ClientName,
		ClientEmail:    b.ClientEmail,
		ClientPhone:    b.ClientPhone,
		Service:        b.Service,
		Notes:          b.Notes,
		Status:         string(b.Status),
		Date:           s.Date,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		CreatedAt:      b.CreatedAt,
	}
}

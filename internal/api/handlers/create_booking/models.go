package create_booking

import (
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	createBooking "github.com/glowbook/booking-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID      int64   `json:"slotId"`
	ClientName  string  `json:"clientName"`
	ClientEmail string  `json:"clientEmail"`
	ClientPhone string  `json:"clientPhone,omitempty"`
	Service     string  `json:"service"`
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64   `json:"id"`
	SlotID         int64   `json:"slotId"`
	ProfessionalID int64   `json:"professionalId"`
	ClientName     string  `json:"clientName"`
	ClientEmail    string  `json:"clientEmail"`
	ClientPhone    string  `json:"clientPhone,omitempty"`
	Service        string  `json:"service"`
	Notes          *string `json:"notes,omitempty"`
	Status         string  `json:"status"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	CreatedAt      string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(professionalID int64) *createBooking.Request {
	return &createBooking.Request{
		ProfessionalID: professionalID,
		SlotID:         r.SlotID,
		ClientName:     r.ClientName,
		ClientEmail:    r.ClientEmail,
		ClientPhone:    r.ClientPhone,
		Service:        r.Service,
		Notes:          r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		SlotID:         resp.SlotID,
		ProfessionalID: resp.ProfessionalID,
		ClientName:     resp.ClientName,
		ClientEmail:    resp.ClientEmail,
		ClientPhone:    resp.ClientPhone,
		Service:        resp.Service,
		Notes:          resp.Notes,
		Status:         resp.Status,
		Date:           resp.Date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}

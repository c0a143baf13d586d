package models

import (
	"errors"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetProfessionalBookingsRequest запрос на получение бронирований профессионала
type GetProfessionalBookingsRequest struct {
	ProfessionalID  int64      `json:"professionalId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включать отклонённые и отменённые
}

// ToDomainFilter конвертирует запрос в domain фильтр
func (r *GetProfessionalBookingsRequest) ToDomainFilter() (domain.BookingFilter, error) {
	filter := domain.BookingFilter{
		ProfessionalID:  r.ProfessionalID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return domain.BookingFilter{}, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// Response модели

// BookingResponse бронирование в ответе сервиса
type BookingResponse struct {
	ID                 int64      `json:"id"`
	SlotID             int64      `json:"slotId"`
	ProfessionalID     int64      `json:"professionalId"`
	ClientName         string     `json:"clientName"`
	ClientEmail        string     `json:"clientEmail"`
	ClientPhone        string     `json:"clientPhone,omitempty"`
	Service            string     `json:"service"`
	Notes              *string    `json:"notes,omitempty"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует domain бронирование в ответ сервиса
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		SlotID:             b.SlotID,
		ProfessionalID:     b.ProfessionalID,
		ClientName:         b.ClientName,
		ClientEmail:        b.ClientEmail,
		ClientPhone:        b.ClientPhone,
		Service:            b.Service,
		Notes:              b.Notes,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain бронирований
func FromDomainBookingList(list []*domain.Booking) *BookingListResponse {
	items := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: items, Total: len(items)}
}

// ToDomainBookingStatus валидирует и конвертирует строковый статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusRejected, domain.StatusCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

package get_professional_bookings

import (
	"context"

	"github.com/glowbook/booking-service/internal/service/bookings/models"
)

type BookingsService interface {
	GetProfessionalBookings(ctx context.Context, req *models.GetProfessionalBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/glowbook/booking-service/internal/infra/storage/booking"
	"github.com/glowbook/booking-service/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видит только профессионал, которому оно принадлежит
func (s *Service) GetByID(ctx context.Context, id int64, professionalID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for professional=%d", id, professionalID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.ProfessionalID != professionalID {
		s.logger.Warn("GetByID: access denied for professional=%d to booking id=%d", professionalID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetProfessionalBookings получает бронирования профессионала с фильтрацией
// Поддерживает фильтры по периоду дат слота и статусу, по умолчанию
// отклонённые и отменённые бронирования не включаются
func (s *Service) GetProfessionalBookings(ctx context.Context, req *models.GetProfessionalBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProfessionalBookings: fetching bookings for professional=%d, status=%v, includeInactive=%v",
		req.ProfessionalID, req.Status, req.IncludeInactive)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProfessionalBookings: invalid filter for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	list, err := s.bookingRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProfessionalBookings: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetProfessionalBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProfessionalBookings: fetched %d bookings for professional=%d", len(list), req.ProfessionalID)
	return models.FromDomainBookingList(list), nil
}

package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	bookingRepo "github.com/glowbook/booking-service/internal/infra/storage/booking"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
)

// UseCase use case отмены бронирования
// Pending-заявку может отменить любая сторона, подтверждённое бронирование
// клиент отменяет только если профессионал разрешил отмены в настройках
type UseCase struct {
	slotRepo        SlotRepository
	bookingRepo     BookingRepository
	profRepo        ProfessionalRepository
	txManager       TransactionManager
	dispatcher      Dispatcher
	reopenCancelled bool
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// reopenCancelled управляет судьбой booked-слота при отмене: true возвращает
// его в продажу (available), false убирает из расписания (cancelled)
func NewUseCase(
	slots SlotRepository,
	bookings BookingRepository,
	professionals ProfessionalRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	reopenCancelled bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slots,
		bookingRepo:     bookings,
		profRepo:        professionals,
		txManager:       txManager,
		dispatcher:      dispatcher,
		reopenCancelled: reopenCancelled,
		logger:          logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%s", req.BookingID, req.Actor)

	if req.Actor != ActorClient && req.Actor != ActorProfessional {
		return nil, fmt.Errorf("%w: unknown actor %q", ErrInvalidInput, req.Actor)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var (
		cancelled    *domain.Booking
		slotSnapshot *domain.TimeSlot
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем бронирование с блокировкой строки
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrStorageUnavailable, err)
		}

		if req.Actor == ActorProfessional && b.ProfessionalID != req.ProfessionalID {
			uc.logger.Warn("CancelBooking: professional=%d is not the owner of booking=%d",
				req.ProfessionalID, req.BookingID)
			return ErrAccessDenied
		}

		if !b.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking=%d has status=%s, cannot be cancelled",
				req.BookingID, b.Status)
			return fmt.Errorf("%w: booking status is %s", ErrInvalidTransition, b.Status)
		}

		// 2. Отмену подтверждённого бронирования клиентом профессионал
		// может запретить в настройках
		if b.Status == domain.StatusConfirmed && req.Actor == ActorClient {
			prof, err := uc.profRepo.GetByID(txCtx, b.ProfessionalID)
			if err != nil {
				uc.logger.Error("CancelBooking: failed to get professional id=%d: %v", b.ProfessionalID, err)
				return fmt.Errorf("%w: failed to get professional: %v", ErrStorageUnavailable, err)
			}
			if !prof.Settings.AllowCancellations {
				return ErrCancellationDisabled
			}
		}

		s, err := uc.slotRepo.GetByID(txCtx, b.SlotID)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to get slot id=%d: %v", b.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrStorageUnavailable, err)
		}

		// 3. Освобождаем слот в зависимости от фазы бронирования
		var slotOutcome domain.SlotStatus
		switch b.Status {
		case domain.StatusPending:
			// Отмена заявки всегда возвращает слот в продажу
			slotOutcome = domain.SlotStatusAvailable
			err = uc.slotRepo.Commit(txCtx, b.SlotID, slotOutcome)
		case domain.StatusConfirmed:
			slotOutcome = domain.SlotStatusCancelled
			if uc.reopenCancelled {
				slotOutcome = domain.SlotStatusAvailable
			}
			err = uc.slotRepo.ReleaseBooked(txCtx, b.SlotID, slotOutcome)
		}
		if err != nil {
			if errors.Is(err, slotRepo.ErrInvalidTransition) {
				return fmt.Errorf("%w: slot status does not match booking", ErrInvalidTransition)
			}
			uc.logger.Error("CancelBooking: failed to release slot id=%d: %v", b.SlotID, err)
			return fmt.Errorf("%w: failed to release slot: %v", ErrStorageUnavailable, err)
		}

		// 4. Переводим бронирование в cancelled
		if err := uc.bookingRepo.Cancel(txCtx, b.ID, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidTransition) {
				return fmt.Errorf("%w: booking is already terminal", ErrInvalidTransition)
			}
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", b.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrStorageUnavailable, err)
		}

		now := time.Now().UTC()
		b.Status = domain.StatusCancelled
		if req.Reason != "" {
			b.CancellationReason = &req.Reason
		}
		b.CancelledAt = &now
		cancelled = b

		snapshot := *s
		snapshot.Status = slotOutcome
		snapshot.BookingID = nil
		slotSnapshot = &snapshot

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking=%d cancelled, slot=%d is now %s",
		cancelled.ID, cancelled.SlotID, slotSnapshot.Status)

	uc.dispatcher.Dispatch(ctx, domain.NewBookingEvent(domain.EventBookingCancelled, *cancelled, *slotSnapshot))

	return newResponse(cancelled, slotSnapshot), nil
}

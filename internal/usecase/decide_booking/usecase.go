package decide_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowbook/booking-service/internal/domain"
	bookingRepo "github.com/glowbook/booking-service/internal/infra/storage/booking"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
)

// UseCase use case решения профессионала по заявке на бронирование
// Подтверждение переводит пару booking/slot в confirmed/booked,
// отклонение возвращает слот в available и освобождает его для других клиентов
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	dispatcher  Dispatcher
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotRepository,
	bookings BookingRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slots,
		bookingRepo: bookings,
		txManager:   txManager,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Execute выполняет use case решения по бронированию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DecideBooking: booking=%d, professional=%d, decision=%s",
		req.BookingID, req.ProfessionalID, req.Decision)

	if req.Decision != DecisionApprove && req.Decision != DecisionReject {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, req.Decision)
	}

	var (
		decided      *domain.Booking
		slotSnapshot *domain.TimeSlot
		eventType    domain.EventType
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем бронирование с блокировкой строки
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("DecideBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrStorageUnavailable, err)
		}

		// 2. Решение принимает только владелец расписания
		if b.ProfessionalID != req.ProfessionalID {
			uc.logger.Warn("DecideBooking: professional=%d is not the owner of booking=%d",
				req.ProfessionalID, req.BookingID)
			return ErrAccessDenied
		}

		// 3. Решение возможно только для pending
		if !b.CanBeDecided() {
			uc.logger.Warn("DecideBooking: booking=%d has status=%s, cannot be decided",
				req.BookingID, b.Status)
			return fmt.Errorf("%w: booking status is %s", ErrInvalidTransition, b.Status)
		}

		s, err := uc.slotRepo.GetByID(txCtx, b.SlotID)
		if err != nil {
			uc.logger.Error("DecideBooking: failed to get slot id=%d: %v", b.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrStorageUnavailable, err)
		}

		// 4. Переводим пару booking/slot атомарно
		// Статусы зеркальны: confirmed <-> booked, rejected -> available
		var (
			bookingStatus domain.BookingStatus
			slotOutcome   domain.SlotStatus
		)
		if req.Decision == DecisionApprove {
			bookingStatus = domain.StatusConfirmed
			slotOutcome = domain.SlotStatusBooked
			eventType = domain.EventBookingConfirmed
		} else {
			bookingStatus = domain.StatusRejected
			slotOutcome = domain.SlotStatusAvailable
			eventType = domain.EventBookingRejected
		}

		if err := uc.slotRepo.Commit(txCtx, b.SlotID, slotOutcome); err != nil {
			if errors.Is(err, slotRepo.ErrInvalidTransition) {
				return fmt.Errorf("%w: slot is not held for this booking", ErrInvalidTransition)
			}
			uc.logger.Error("DecideBooking: failed to commit slot id=%d: %v", b.SlotID, err)
			return fmt.Errorf("%w: failed to commit slot: %v", ErrStorageUnavailable, err)
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, b.ID, domain.StatusPending, bookingStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidTransition) {
				return fmt.Errorf("%w: booking is no longer pending", ErrInvalidTransition)
			}
			uc.logger.Error("DecideBooking: failed to update booking id=%d: %v", b.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrStorageUnavailable, err)
		}

		b.Status = bookingStatus
		decided = b

		snapshot := *s
		snapshot.Status = slotOutcome
		if slotOutcome == domain.SlotStatusAvailable {
			snapshot.BookingID = nil
		}
		slotSnapshot = &snapshot

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("DecideBooking: booking=%d is now %s", decided.ID, decided.Status)

	uc.dispatcher.Dispatch(ctx, domain.NewBookingEvent(eventType, *decided, *slotSnapshot))

	return newResponse(decided, slotSnapshot), nil
}

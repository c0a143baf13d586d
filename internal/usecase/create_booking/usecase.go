package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
)

// UseCase use case создания бронирования
// Единственная точка входа для перехода слота available -> pending:
// резервирование и создание бронирования выполняются атомарно
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	profRepo    ProfessionalRepository
	locker      Locker
	lockTTL     time.Duration
	txManager   TransactionManager
	dispatcher  Dispatcher
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotRepository,
	bookings BookingRepository,
	professionals ProfessionalRepository,
	locker Locker,
	lockTTL time.Duration,
	txManager TransactionManager,
	dispatcher Dispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slots,
		bookingRepo: bookings,
		profRepo:    professionals,
		locker:      locker,
		lockTTL:     lockTTL,
		txManager:   txManager,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Резервирование слота сериализуется блокировкой по слоту и условным
// UPDATE-ом статуса: из конкурентных запросов на один слот выигрывает один,
// остальные получают ErrSlotConflict без каких-либо изменений состояния
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: professional=%d, slot=%d, client=%s, service=%s",
		req.ProfessionalID, req.SlotID, req.ClientEmail, req.Service)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Межпроцессная блокировка слота
	// При недоступности Redis продолжаем без неё: условный UPDATE статуса
	// в сериализуемой транзакции сам по себе исключает двойное бронирование
	lockKey := fmt.Sprintf("slot:%d", req.SlotID)
	locked, err := uc.locker.Lock(ctx, lockKey, uc.lockTTL)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot lock unavailable, relying on storage guard: %v", err)
	} else if !locked {
		uc.logger.Warn("CreateBooking: slot=%d is locked by a concurrent request", req.SlotID)
		return nil, ErrSlotConflict
	} else {
		defer func() {
			if err := uc.locker.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
				uc.logger.Warn("CreateBooking: failed to unlock slot=%d: %v", req.SlotID, err)
			}
		}()
	}

	var (
		createdBooking *domain.Booking
		slotSnapshot   *domain.TimeSlot
	)

	// 3. Резервируем слот и создаем бронирование в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Профессионал должен существовать
		if _, err := uc.profRepo.GetByID(txCtx, req.ProfessionalID); err != nil {
			if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
				return ErrProfessionalNotFound
			}
			uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", req.ProfessionalID, err)
			return fmt.Errorf("%w: failed to get professional: %v", ErrStorageUnavailable, err)
		}

		// 3.2. Слот должен существовать и принадлежать профессионалу
		s, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrStorageUnavailable, err)
		}
		if s.ProfessionalID != req.ProfessionalID {
			uc.logger.Warn("CreateBooking: slot=%d belongs to professional=%d, not %d",
				req.SlotID, s.ProfessionalID, req.ProfessionalID)
			return ErrSlotNotFound
		}

		// 3.3. Резервируем: available -> pending
		// Основная защита от двойного бронирования
		if err := uc.slotRepo.Reserve(txCtx, req.SlotID); err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrSlotNotAvailable):
				return ErrSlotConflict
			case errors.Is(err, slotRepo.ErrSlotNotFound):
				return ErrSlotNotFound
			default:
				uc.logger.Error("CreateBooking: failed to reserve slot id=%d: %v", req.SlotID, err)
				return fmt.Errorf("%w: failed to reserve slot: %v", ErrStorageUnavailable, err)
			}
		}

		// 3.4. Создаем бронирование в статусе pending
		b := &domain.Booking{
			SlotID:         req.SlotID,
			ProfessionalID: req.ProfessionalID,
			ClientName:     req.ClientName,
			ClientEmail:    req.ClientEmail,
			ClientPhone:    req.ClientPhone,
			Service:        req.Service,
			Notes:          req.Notes,
			Status:         domain.StatusPending,
		}
		created, err := uc.bookingRepo.Create(txCtx, b)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrStorageUnavailable, err)
		}

		// 3.5. Привязываем бронирование к слоту
		if err := uc.slotRepo.AttachBooking(txCtx, req.SlotID, created.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to attach booking id=%d to slot id=%d: %v",
				created.ID, req.SlotID, err)
			return fmt.Errorf("%w: failed to attach booking: %v", ErrStorageUnavailable, err)
		}

		createdBooking = created

		snapshot := *s
		snapshot.Status = domain.SlotStatusPending
		snapshot.BookingID = &created.ID
		slotSnapshot = &snapshot

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d for slot=%d", createdBooking.ID, req.SlotID)

	// 4. Публикуем событие после фиксации транзакции
	// Ошибки доставки никогда не откатывают уже зафиксированный переход
	uc.dispatcher.Dispatch(ctx, domain.NewBookingEvent(domain.EventBookingRequested, *createdBooking, *slotSnapshot))

	return newResponse(createdBooking, slotSnapshot), nil
}

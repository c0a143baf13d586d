package holdreaper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	bookingRepo "github.com/glowbook/booking-service/internal/infra/storage/booking"
)

// ExpiredHoldReason причина отмены, записываемая в осиротевшие бронирования
const ExpiredHoldReason = "reservation expired"

// Reaper фоновый воркер освобождения зависших pending-слотов
// Слот, зарезервированный дольше holdTTL и не доведённый до решения,
// возвращается в available, а его бронирование отменяется. Заявка,
// по которой профессионал молчит, не блокирует слот навсегда
type Reaper struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	dispatcher  Dispatcher
	holdTTL     time.Duration
	interval    time.Duration
	logger      Logger
}

// New создает новый экземпляр воркера
func New(
	slots SlotRepository,
	bookings BookingRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	holdTTL time.Duration,
	interval time.Duration,
	logger Logger,
) *Reaper {
	return &Reaper{
		slotRepo:    slots,
		bookingRepo: bookings,
		txManager:   txManager,
		dispatcher:  dispatcher,
		holdTTL:     holdTTL,
		interval:    interval,
		logger:      logger,
	}
}

// Run запускает цикл воркера, блокируется до отмены контекста
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("HoldReaper: started, ttl=%s, interval=%s", r.holdTTL, r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("HoldReaper: stopped")
			return
		case <-ticker.C:
			if err := r.ReapOnce(ctx); err != nil {
				r.logger.Error("HoldReaper: pass failed: %v", err)
			}
		}
	}
}

// ReapOnce выполняет один проход: освобождает все просроченные холды
func (r *Reaper) ReapOnce(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-r.holdTTL)

	var events []domain.BookingEvent

	err := r.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		expired, err := r.slotRepo.ReleaseExpired(txCtx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to release expired holds: %w", err)
		}
		if len(expired) == 0 {
			return nil
		}

		r.logger.Info("HoldReaper: releasing %d expired holds", len(expired))

		for _, hold := range expired {
			if hold.BookingID == nil {
				r.logger.Warn("HoldReaper: slot=%d was pending without a booking", hold.SlotID)
				continue
			}

			if err := r.bookingRepo.Cancel(txCtx, *hold.BookingID, ExpiredHoldReason); err != nil {
				// Бронирование могли отменить параллельно, холд уже снят
				if errors.Is(err, bookingRepo.ErrInvalidTransition) ||
					errors.Is(err, bookingRepo.ErrBookingNotFound) {
					r.logger.Warn("HoldReaper: booking=%d already terminal, slot=%d released",
						*hold.BookingID, hold.SlotID)
					continue
				}
				return fmt.Errorf("failed to cancel booking %d: %w", *hold.BookingID, err)
			}

			b, err := r.bookingRepo.GetByID(txCtx, *hold.BookingID)
			if err != nil {
				return fmt.Errorf("failed to reload booking %d: %w", *hold.BookingID, err)
			}
			s, err := r.slotRepo.GetByID(txCtx, hold.SlotID)
			if err != nil {
				return fmt.Errorf("failed to reload slot %d: %w", hold.SlotID, err)
			}

			events = append(events, domain.NewBookingEvent(domain.EventBookingCancelled, *b, *s))
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, e := range events {
		r.dispatcher.Dispatch(ctx, e)
	}

	return nil
}

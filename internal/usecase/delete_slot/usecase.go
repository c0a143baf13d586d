package delete_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowbook/booking-service/internal/domain"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
)

// Request запрос на удаление свободного слота из расписания
type Request struct {
	SlotID         int64
	ProfessionalID int64
}

// UseCase use case удаления слота
// Удаление мягкое: слот переводится в cancelled и перестает показываться.
// Слот с активным бронированием удалить нельзя, сначала нужно отменить
// или отклонить бронирование
type UseCase struct {
	slotRepo  SlotRepository
	txManager TransactionManager
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slots SlotRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:  slots,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute выполняет use case удаления слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("DeleteSlot: slot=%d, professional=%d", req.SlotID, req.ProfessionalID)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		s, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			uc.logger.Error("DeleteSlot: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrStorageUnavailable, err)
		}

		if s.ProfessionalID != req.ProfessionalID {
			uc.logger.Warn("DeleteSlot: professional=%d is not the owner of slot=%d",
				req.ProfessionalID, req.SlotID)
			return ErrAccessDenied
		}

		// Повторное удаление уже отменённого слота ничего не меняет
		if s.Status == domain.SlotStatusCancelled {
			uc.logger.Info("DeleteSlot: slot=%d is already cancelled", req.SlotID)
			return nil
		}

		if !s.CanBeDeleted() {
			uc.logger.Warn("DeleteSlot: slot=%d has status=%s, cannot be deleted", req.SlotID, s.Status)
			return fmt.Errorf("%w: slot status is %s", ErrSlotInUse, s.Status)
		}

		if err := uc.slotRepo.Cancel(txCtx, req.SlotID); err != nil {
			if errors.Is(err, slotRepo.ErrInvalidTransition) {
				return fmt.Errorf("%w: slot is no longer available", ErrSlotInUse)
			}
			uc.logger.Error("DeleteSlot: failed to cancel slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to cancel slot: %v", ErrStorageUnavailable, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info("DeleteSlot: slot=%d cancelled", req.SlotID)
	return nil
}

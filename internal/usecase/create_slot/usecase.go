package create_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowbook/booking-service/internal/domain"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
)

// UseCase use case создания слота в расписании профессионала
type UseCase struct {
	slotRepo  SlotRepository
	profRepo  ProfessionalRepository
	txManager TransactionManager
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotRepository,
	professionals ProfessionalRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:  slots,
		profRepo:  professionals,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute выполняет use case создания слота
// Проверка пересечений и вставка выполняются в одной сериализуемой
// транзакции, поэтому два конкурентных пересекающихся слота не пройдут
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSlot: professional=%d, date=%s, time=%s-%s",
		req.ProfessionalID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	var created *domain.TimeSlot

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := uc.profRepo.GetByID(txCtx, req.ProfessionalID); err != nil {
			if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
				return ErrProfessionalNotFound
			}
			uc.logger.Error("CreateSlot: failed to get professional id=%d: %v", req.ProfessionalID, err)
			return fmt.Errorf("%w: failed to get professional: %v", ErrStorageUnavailable, err)
		}

		s, err := uc.slotRepo.Create(txCtx, &domain.TimeSlot{
			ProfessionalID: req.ProfessionalID,
			Date:           req.Date,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			Status:         domain.SlotStatusAvailable,
		})
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotOverlap) {
				return ErrSlotOverlap
			}
			uc.logger.Error("CreateSlot: failed to create slot: %v", err)
			return fmt.Errorf("%w: failed to create slot: %v", ErrStorageUnavailable, err)
		}

		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateSlot: created slot id=%d", created.ID)

	return newResponse(created), nil
}

func validateRequest(req *Request) error {
	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professional id is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	return nil
}

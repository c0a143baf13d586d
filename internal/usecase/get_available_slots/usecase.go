package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowbook/booking-service/internal/domain"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
)

// UseCase use case получения расписания профессионала
type UseCase struct {
	slotRepo SlotRepository
	profRepo ProfessionalRepository
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slots SlotRepository, professionals ProfessionalRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slots,
		profRepo: professionals,
		logger:   logger,
	}
}

// Execute выполняет use case получения расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%d, owner=%v", req.ProfessionalID, req.Owner)

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, fmt.Errorf("%w: period end is before period start", ErrInvalidInput)
	}

	prof, err := uc.profRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrStorageUnavailable, err)
	}

	filter := domain.SlotFilter{
		ProfessionalID: req.ProfessionalID,
		From:           req.From,
		To:             req.To,
	}
	// Публичная витрина прячет занятые слоты по желанию профессионала
	if !req.Owner && prof.Settings.ShowAvailableOnly {
		filter.OnlyAvailable = true
	}

	slots, err := uc.slotRepo.GetByFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get slots for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrStorageUnavailable, err)
	}

	return newResponse(req.ProfessionalID, slots, req.Owner), nil
}

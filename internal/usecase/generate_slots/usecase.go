package generate_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
	"github.com/glowbook/booking-service/pkg/types"
)

// UseCase use case генерации слотов из рабочих часов профессионала
// Рабочие часы нарезаются окнами в гранулярность расписания, окна,
// пересекающиеся с существующими слотами, пропускаются. Буфер при
// генерации не применяется: слоты идут встык, буфер учитывается
// при расчёте свободных окон для клиентов
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

// Execute выполняет use case генерации слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: professional=%d, from=%s, to=%s",
		req.ProfessionalID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	from := truncateToDay(req.From)
	to := truncateToDay(req.To)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end is before period start", ErrInvalidInput)
	}
	if to.Sub(from) > MaxPeriodDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period exceeds %d days", ErrInvalidInput, MaxPeriodDays)
	}

	resp := &Response{ProfessionalID: req.ProfessionalID, Created: []GeneratedSlot{}}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		prof, err := uc.profRepo.GetByID(txCtx, req.ProfessionalID)
		if err != nil {
			if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
				return ErrProfessionalNotFound
			}
			uc.logger.Error("GenerateSlots: failed to get professional id=%d: %v", req.ProfessionalID, err)
			return fmt.Errorf("%w: failed to get professional: %v", ErrStorageUnavailable, err)
		}

		existing, err := uc.slotRepo.GetByFilter(txCtx, domain.SlotFilter{
			ProfessionalID: req.ProfessionalID,
			From:           &from,
			To:             &to,
		})
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to get existing slots: %v", err)
			return fmt.Errorf("%w: failed to get existing slots: %v", ErrStorageUnavailable, err)
		}

		busyByDate := make(map[string][]domain.Interval)
		for _, s := range existing {
			start, err := s.StartTime.Minutes()
			if err != nil {
				continue
			}
			end, err := s.EndTime.Minutes()
			if err != nil {
				continue
			}
			key := s.Date.Format(domain.DateFormat)
			busyByDate[key] = append(busyByDate[key], domain.Interval{Start: start, End: end})
		}

		granularity := prof.Granularity()

		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			key := d.Format(domain.DateFormat)
			day := prof.WorkingHours.ForWeekday(d.Weekday())

			// Буфер 0: генерация заполняет рабочие часы встык
			windows, err := domain.FreeWindows(day, busyByDate[key], 0, granularity)
			if err != nil {
				uc.logger.Warn("GenerateSlots: malformed working hours for %s: %v", key, err)
				resp.SkippedDays++
				continue
			}
			if len(windows) == 0 {
				resp.SkippedDays++
				continue
			}

			for _, w := range windows {
				startTS, err := types.FromMinutes(w.Start)
				if err != nil {
					continue
				}
				endTS, err := types.FromMinutes(w.End)
				if err != nil {
					continue
				}

				created, err := uc.slotRepo.Create(txCtx, &domain.TimeSlot{
					ProfessionalID: req.ProfessionalID,
					Date:           d,
					StartTime:      startTS,
					EndTime:        endTS,
					Status:         domain.SlotStatusAvailable,
				})
				if err != nil {
					// Окна считались от тех же слотов в той же транзакции,
					// реальное пересечение здесь означает гонку вне неё
					if errors.Is(err, slotRepo.ErrSlotOverlap) {
						uc.logger.Warn("GenerateSlots: window %s %s-%s overlaps, skipping", key, startTS, endTS)
						continue
					}
					uc.logger.Error("GenerateSlots: failed to create slot %s %s-%s: %v", key, startTS, endTS, err)
					return fmt.Errorf("%w: failed to create slot: %v", ErrStorageUnavailable, err)
				}

				resp.Created = append(resp.Created, GeneratedSlot{
					ID:        created.ID,
					Date:      key,
					StartTime: created.StartTime,
					EndTime:   created.EndTime,
				})
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GenerateSlots: created %d slots for professional=%d", len(resp.Created), req.ProfessionalID)

	return resp, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

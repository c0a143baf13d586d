package get_free_windows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
	"github.com/glowbook/booking-service/pkg/types"
)

// UseCase use case расчёта свободных окон для записи
// Из рабочих часов профессионала вычитаются занятые слоты, расширенные
// буфером, остаток нарезается окнами длиной в гранулярность расписания
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

// Execute выполняет use case расчёта свободных окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeWindows: professional=%d, from=%s, to=%s",
		req.ProfessionalID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	from := truncateToDay(req.From)
	to := truncateToDay(req.To)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end is before period start", ErrInvalidInput)
	}
	if to.Sub(from) > MaxPeriodDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period exceeds %d days", ErrInvalidInput, MaxPeriodDays)
	}

	prof, err := uc.profRepo.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrProfessionalNotFound) {
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetFreeWindows: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrStorageUnavailable, err)
	}

	// Занятыми считаются все неотменённые слоты: available-слот тоже
	// занимает место в расписании и не должен порождать пересекающееся окно.
	// Границы фильтра включительные
	slots, err := uc.slotRepo.GetByFilter(ctx, domain.SlotFilter{
		ProfessionalID: req.ProfessionalID,
		From:           &from,
		To:             &to,
	})
	if err != nil {
		uc.logger.Error("GetFreeWindows: failed to get slots for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrStorageUnavailable, err)
	}

	busyByDate := make(map[string][]domain.Interval)
	for _, s := range slots {
		start, err := s.StartTime.Minutes()
		if err != nil {
			uc.logger.Warn("GetFreeWindows: slot=%d has malformed start time %q, skipping", s.ID, s.StartTime)
			continue
		}
		end, err := s.EndTime.Minutes()
		if err != nil {
			uc.logger.Warn("GetFreeWindows: slot=%d has malformed end time %q, skipping", s.ID, s.EndTime)
			continue
		}
		key := s.Date.Format(domain.DateFormat)
		busyByDate[key] = append(busyByDate[key], domain.Interval{Start: start, End: end})
	}

	granularity := prof.Granularity()
	resp := &Response{
		ProfessionalID:     req.ProfessionalID,
		GranularityMinutes: granularity,
		Days:               []Day{},
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateFormat)
		day := prof.WorkingHours.ForWeekday(d.Weekday())

		windows, err := domain.FreeWindows(day, busyByDate[key], prof.BufferMinutes, granularity)
		if err != nil {
			uc.logger.Warn("GetFreeWindows: malformed working hours for %s: %v", key, err)
			continue
		}
		if len(windows) == 0 {
			continue
		}

		items := make([]Window, 0, len(windows))
		for _, w := range windows {
			startTS, err := types.FromMinutes(w.Start)
			if err != nil {
				continue
			}
			endTS, err := types.FromMinutes(w.End)
			if err != nil {
				continue
			}
			items = append(items, Window{StartTime: startTS, EndTime: endTS})
		}
		resp.Days = append(resp.Days, Day{Date: key, Windows: items})
	}

	return resp, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package get_free_windows

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/internal/domain"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
	"github.com/glowbook/booking-service/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeSlotRepo struct {
	slots []*domain.TimeSlot
}

func (r *fakeSlotRepo) GetByFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.TimeSlot, error) {
	return r.slots, nil
}

type fakeProfRepo struct {
	prof *domain.Professional
}

func (r *fakeProfRepo) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	if r.prof == nil || r.prof.ID != id {
		return nil, professionalRepo.ErrProfessionalNotFound
	}
	return r.prof, nil
}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

// Понедельник 2026-09-07
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func workingWeek(t *testing.T, start, end string) domain.WeekSchedule {
	t.Helper()
	day := domain.DaySchedule{IsWorking: true, Start: mustTime(t, start), End: mustTime(t, end)}
	return domain.WeekSchedule{
		Monday:  day,
		Tuesday: day,
	}
}

func newProfessional(t *testing.T) *domain.Professional {
	t.Helper()
	return &domain.Professional{
		ID:            1,
		WorkingHours:  workingWeek(t, "09:00", "17:00"),
		BufferMinutes: 15,
		Settings:      domain.ProfessionalSettings{SlotGranularityMinutes: 60},
	}
}

func TestExecute_BusySlotWidenedByBuffer(t *testing.T) {
	slots := &fakeSlotRepo{slots: []*domain.TimeSlot{{
		ID:             10,
		ProfessionalID: 1,
		Date:           monday,
		StartTime:      mustTime(t, "10:00"),
		EndTime:        mustTime(t, "11:00"),
		Status:         domain.SlotStatusBooked,
	}}}

	uc := NewUseCase(slots, &fakeProfRepo{prof: newProfessional(t)}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.GranularityMinutes)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2026-09-07", resp.Days[0].Date)

	// До слота остаётся 09:00-09:45, на часовое окно этого не хватает,
	// поэтому первое окно начинается через буфер после занятого слота
	windows := resp.Days[0].Windows
	require.Len(t, windows, 5)
	assert.Equal(t, mustTime(t, "11:15"), windows[0].StartTime)
	assert.Equal(t, mustTime(t, "12:15"), windows[0].EndTime)
	assert.Equal(t, mustTime(t, "15:15"), windows[4].StartTime)
	assert.Equal(t, mustTime(t, "16:15"), windows[4].EndTime)

	// Ни одно окно не пересекает занятый интервал с буфером (09:45-11:15)
	for _, w := range windows {
		start, err := w.StartTime.Minutes()
		require.NoError(t, err)
		end, err := w.EndTime.Minutes()
		require.NoError(t, err)
		assert.False(t, start < 11*60+15 && end > 9*60+45,
			"window %s-%s overlaps the buffered busy interval", w.StartTime, w.EndTime)
	}
}

func TestExecute_EmptyCalendar(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeProfRepo{prof: newProfessional(t)}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	// 09:00-17:00 без занятых слотов это восемь часовых окон
	assert.Len(t, resp.Days[0].Windows, 8)
}

func TestExecute_NonWorkingDaysOmitted(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeProfRepo{prof: newProfessional(t)}, nopLogger{})

	// Понедельник и вторник рабочие, остальная неделя нет
	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday.AddDate(0, 0, 6),
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-09-07", resp.Days[0].Date)
	assert.Equal(t, "2026-09-08", resp.Days[1].Date)
}

func TestExecute_PeriodValidation(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeProfRepo{prof: newProfessional(t)}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday.AddDate(0, 0, -1),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday.AddDate(0, 0, MaxPeriodDays+1),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ProfessionalNotFound(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeProfRepo{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 404,
		From:           monday,
		To:             monday,
	})
	require.ErrorIs(t, err, ErrProfessionalNotFound)
}

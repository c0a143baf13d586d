package generate_slots

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

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSlotRepo struct {
	existing []*domain.TimeSlot
	nextID   int64
	created  []*domain.TimeSlot
}

func (r *fakeSlotRepo) GetByFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.TimeSlot, error) {
	return r.existing, nil
}

func (r *fakeSlotRepo) Create(ctx context.Context, s *domain.TimeSlot) (*domain.TimeSlot, error) {
	r.nextID++
	cp := *s
	cp.ID = r.nextID
	r.created = append(r.created, &cp)
	return &cp, nil
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

func newProfessional(t *testing.T) *domain.Professional {
	t.Helper()
	workDay := domain.DaySchedule{IsWorking: true, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00")}
	return &domain.Professional{
		ID: 1,
		WorkingHours: domain.WeekSchedule{
			Monday:  workDay,
			Tuesday: workDay,
		},
		BufferMinutes: 15,
		Settings:      domain.ProfessionalSettings{SlotGranularityMinutes: 60},
	}
}

func TestExecute_FillsWorkingDayBackToBack(t *testing.T) {
	slots := &fakeSlotRepo{}
	uc := NewUseCase(slots, &fakeProfRepo{prof: newProfessional(t)}, fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	// 09:00-12:00 с шагом 60 минут это три слота встык, буфер не применяется
	require.Len(t, resp.Created, 3)
	assert.Equal(t, mustTime(t, "09:00"), resp.Created[0].StartTime)
	assert.Equal(t, mustTime(t, "10:00"), resp.Created[0].EndTime)
	assert.Equal(t, mustTime(t, "10:00"), resp.Created[1].StartTime)
	assert.Equal(t, mustTime(t, "11:00"), resp.Created[2].StartTime)
	assert.Zero(t, resp.SkippedDays)

	for _, s := range slots.created {
		assert.Equal(t, domain.SlotStatusAvailable, s.Status)
		assert.Equal(t, int64(1), s.ProfessionalID)
	}
}

func TestExecute_SkipsWindowsCoveredByExistingSlots(t *testing.T) {
	slots := &fakeSlotRepo{existing: []*domain.TimeSlot{{
		ID:             50,
		ProfessionalID: 1,
		Date:           monday,
		StartTime:      mustTime(t, "09:30"),
		EndTime:        mustTime(t, "10:30"),
		Status:         domain.SlotStatusBooked,
	}}}
	uc := NewUseCase(slots, &fakeProfRepo{prof: newProfessional(t)}, fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	// До существующего слота остаётся 30 минут, этого мало для часового
	// окна, после него помещается ровно один слот 10:30-11:30
	require.Len(t, resp.Created, 1)
	assert.Equal(t, mustTime(t, "10:30"), resp.Created[0].StartTime)
	assert.Equal(t, mustTime(t, "11:30"), resp.Created[0].EndTime)
}

func TestExecute_CountsSkippedDays(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeProfRepo{prof: newProfessional(t)}, fakeTxManager{}, nopLogger{})

	// Понедельник и вторник рабочие, остальные пять дней пропускаются
	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday.AddDate(0, 0, 6),
	})
	require.NoError(t, err)

	assert.Len(t, resp.Created, 6)
	assert.Equal(t, 5, resp.SkippedDays)
}

func TestExecute_FullyCoveredDaySkipped(t *testing.T) {
	slots := &fakeSlotRepo{existing: []*domain.TimeSlot{{
		ID:             50,
		ProfessionalID: 1,
		Date:           monday,
		StartTime:      mustTime(t, "09:00"),
		EndTime:        mustTime(t, "12:00"),
		Status:         domain.SlotStatusAvailable,
	}}}
	uc := NewUseCase(slots, &fakeProfRepo{prof: newProfessional(t)}, fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 1,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Created)
	assert.Equal(t, 1, resp.SkippedDays)
}

func TestExecute_PeriodValidation(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeProfRepo{prof: newProfessional(t)}, fakeTxManager{}, nopLogger{})

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
	uc := NewUseCase(&fakeSlotRepo{}, &fakeProfRepo{}, fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: 404,
		From:           monday,
		To:             monday,
	})
	require.ErrorIs(t, err, ErrProfessionalNotFound)
}

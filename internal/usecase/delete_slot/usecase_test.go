package delete_slot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/internal/domain"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
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
	slot    *domain.TimeSlot
	cancels int
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	if r.slot == nil || r.slot.ID != id {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *r.slot
	return &cp, nil
}

func (r *fakeSlotRepo) Cancel(ctx context.Context, id int64) error {
	r.cancels++
	if r.slot.Status != domain.SlotStatusAvailable {
		return slotRepo.ErrInvalidTransition
	}
	r.slot.Status = domain.SlotStatusCancelled
	return nil
}

func newUseCase(status domain.SlotStatus) (*UseCase, *fakeSlotRepo) {
	slots := &fakeSlotRepo{slot: &domain.TimeSlot{
		ID:             10,
		ProfessionalID: 1,
		Status:         status,
	}}
	return NewUseCase(slots, fakeTxManager{}, nopLogger{}), slots
}

func TestExecute_CancelsAvailableSlot(t *testing.T) {
	uc, slots := newUseCase(domain.SlotStatusAvailable)

	err := uc.Execute(context.Background(), &Request{SlotID: 10, ProfessionalID: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusCancelled, slots.slot.Status)
}

func TestExecute_AlreadyCancelledSlotIsNoop(t *testing.T) {
	uc, slots := newUseCase(domain.SlotStatusCancelled)

	// Повторное удаление успешно и не трогает хранилище
	err := uc.Execute(context.Background(), &Request{SlotID: 10, ProfessionalID: 1})
	require.NoError(t, err)
	assert.Zero(t, slots.cancels)
	assert.Equal(t, domain.SlotStatusCancelled, slots.slot.Status)
}

func TestExecute_SlotWithActiveBooking(t *testing.T) {
	for _, status := range []domain.SlotStatus{domain.SlotStatusPending, domain.SlotStatusBooked} {
		t.Run(string(status), func(t *testing.T) {
			uc, slots := newUseCase(status)

			err := uc.Execute(context.Background(), &Request{SlotID: 10, ProfessionalID: 1})
			require.ErrorIs(t, err, ErrSlotInUse)
			assert.Equal(t, status, slots.slot.Status)
		})
	}
}

func TestExecute_NotOwner(t *testing.T) {
	uc, slots := newUseCase(domain.SlotStatusAvailable)

	err := uc.Execute(context.Background(), &Request{SlotID: 10, ProfessionalID: 99})
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.SlotStatusAvailable, slots.slot.Status)
}

func TestExecute_SlotNotFound(t *testing.T) {
	uc, _ := newUseCase(domain.SlotStatusAvailable)

	err := uc.Execute(context.Background(), &Request{SlotID: 404, ProfessionalID: 1})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

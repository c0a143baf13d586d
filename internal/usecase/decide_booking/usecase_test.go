package decide_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/internal/domain"
	bookingRepo "github.com/glowbook/booking-service/internal/infra/storage/booking"
	slotRepo "github.com/glowbook/booking-service/internal/infra/storage/slot"
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
	slot *domain.TimeSlot
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	if r.slot == nil || r.slot.ID != id {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *r.slot
	return &cp, nil
}

func (r *fakeSlotRepo) Commit(ctx context.Context, id int64, outcome domain.SlotStatus) error {
	if r.slot == nil || r.slot.ID != id {
		return slotRepo.ErrSlotNotFound
	}
	if r.slot.Status != domain.SlotStatusPending {
		return slotRepo.ErrInvalidTransition
	}
	r.slot.Status = outcome
	if outcome == domain.SlotStatusAvailable {
		r.slot.BookingID = nil
	}
	r.slot.Version++
	return nil
}

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *r.booking
	return &cp, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	if r.booking == nil || r.booking.ID != id {
		return bookingRepo.ErrBookingNotFound
	}
	if r.booking.Status != from {
		return bookingRepo.ErrInvalidTransition
	}
	r.booking.Status = to
	return nil
}

type fakeDispatcher struct {
	events []domain.BookingEvent
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event domain.BookingEvent) {
	d.events = append(d.events, event)
}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func newFixture(t *testing.T) (*UseCase, *fakeSlotRepo, *fakeBookingRepo, *fakeDispatcher) {
	t.Helper()

	bookingID := int64(7)
	slots := &fakeSlotRepo{slot: &domain.TimeSlot{
		ID:             10,
		ProfessionalID: 1,
		Date:           time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:      mustTime(t, "10:00"),
		EndTime:        mustTime(t, "11:00"),
		Status:         domain.SlotStatusPending,
		BookingID:      &bookingID,
	}}
	bookings := &fakeBookingRepo{booking: &domain.Booking{
		ID:             7,
		SlotID:         10,
		ProfessionalID: 1,
		ClientName:     "Anna Petrova",
		ClientEmail:    "anna@example.com",
		Service:        "Hair Styling",
		Status:         domain.StatusPending,
	}}
	dispatcher := &fakeDispatcher{}

	uc := NewUseCase(slots, bookings, fakeTxManager{}, dispatcher, nopLogger{})
	return uc, slots, bookings, dispatcher
}

func TestExecute_Approve(t *testing.T) {
	uc, slots, bookings, dispatcher := newFixture(t)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:      7,
		ProfessionalID: 1,
		Decision:       DecisionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, domain.StatusConfirmed, bookings.booking.Status)
	assert.Equal(t, domain.SlotStatusBooked, slots.slot.Status)
	require.NotNil(t, slots.slot.BookingID)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventBookingConfirmed, dispatcher.events[0].Type)
	assert.Equal(t, domain.SlotStatusBooked, dispatcher.events[0].Slot.Status)
}

func TestExecute_RejectFreesSlot(t *testing.T) {
	uc, slots, bookings, dispatcher := newFixture(t)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:      7,
		ProfessionalID: 1,
		Decision:       DecisionReject,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, resp.Status)
	assert.Equal(t, domain.StatusRejected, bookings.booking.Status)
	assert.Equal(t, domain.SlotStatusAvailable, slots.slot.Status)
	assert.Nil(t, slots.slot.BookingID)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventBookingRejected, dispatcher.events[0].Type)
	assert.Nil(t, dispatcher.events[0].Slot.BookingID)
}

func TestExecute_UnknownDecision(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:      7,
		ProfessionalID: 1,
		Decision:       Decision("maybe"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_AccessDenied(t *testing.T) {
	uc, slots, _, dispatcher := newFixture(t)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:      7,
		ProfessionalID: 99,
		Decision:       DecisionApprove,
	})
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.SlotStatusPending, slots.slot.Status)
	assert.Empty(t, dispatcher.events)
}

func TestExecute_BookingNotFound(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:      404,
		ProfessionalID: 1,
		Decision:       DecisionApprove,
	})
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AlreadyDecided(t *testing.T) {
	uc, _, bookings, dispatcher := newFixture(t)
	bookings.booking.Status = domain.StatusConfirmed

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:      7,
		ProfessionalID: 1,
		Decision:       DecisionReject,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, dispatcher.events)
}

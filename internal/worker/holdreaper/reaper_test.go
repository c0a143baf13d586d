package holdreaper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/internal/domain"
	bookingRepo "github.com/glowbook/booking-service/internal/infra/storage/booking"
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
	slots map[int64]*domain.TimeSlot
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSlotRepo) ReleaseExpired(ctx context.Context, cutoff time.Time) ([]slotRepo.ExpiredHold, error) {
	var released []slotRepo.ExpiredHold
	for _, s := range r.slots {
		if s.Status != domain.SlotStatusPending || s.ReservedAt == nil || !s.ReservedAt.Before(cutoff) {
			continue
		}
		hold := slotRepo.ExpiredHold{SlotID: s.ID, BookingID: s.BookingID}
		s.Status = domain.SlotStatusAvailable
		s.BookingID = nil
		s.ReservedAt = nil
		released = append(released, hold)
	}
	return released, nil
}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	reasons  map[int64]string
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if !b.CanBeCancelled() {
		return bookingRepo.ErrInvalidTransition
	}
	b.Status = domain.StatusCancelled
	if r.reasons == nil {
		r.reasons = make(map[int64]string)
	}
	r.reasons[id] = reason
	return nil
}

type fakeDispatcher struct {
	events []domain.BookingEvent
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event domain.BookingEvent) {
	d.events = append(d.events, event)
}

func pendingSlot(id, bookingID int64, reservedAgo time.Duration) *domain.TimeSlot {
	reservedAt := time.Now().UTC().Add(-reservedAgo)
	return &domain.TimeSlot{
		ID:             id,
		ProfessionalID: 1,
		Status:         domain.SlotStatusPending,
		BookingID:      &bookingID,
		ReservedAt:     &reservedAt,
	}
}

func TestReapOnce_ReleasesExpiredHolds(t *testing.T) {
	slots := &fakeSlotRepo{slots: map[int64]*domain.TimeSlot{
		10: pendingSlot(10, 7, time.Hour),
		11: pendingSlot(11, 8, time.Minute), // ещё не просрочен
	}}
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		7: {ID: 7, SlotID: 10, ProfessionalID: 1, Status: domain.StatusPending},
		8: {ID: 8, SlotID: 11, ProfessionalID: 1, Status: domain.StatusPending},
	}}
	dispatcher := &fakeDispatcher{}

	r := New(slots, bookings, fakeTxManager{}, dispatcher, 15*time.Minute, time.Minute, nopLogger{})
	require.NoError(t, r.ReapOnce(context.Background()))

	assert.Equal(t, domain.SlotStatusAvailable, slots.slots[10].Status)
	assert.Nil(t, slots.slots[10].BookingID)
	assert.Equal(t, domain.StatusCancelled, bookings.bookings[7].Status)
	assert.Equal(t, ExpiredHoldReason, bookings.reasons[7])

	// Свежий резерв не тронут
	assert.Equal(t, domain.SlotStatusPending, slots.slots[11].Status)
	assert.Equal(t, domain.StatusPending, bookings.bookings[8].Status)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventBookingCancelled, dispatcher.events[0].Type)
	assert.Equal(t, int64(7), dispatcher.events[0].Booking.ID)
	assert.Equal(t, domain.SlotStatusAvailable, dispatcher.events[0].Slot.Status)
}

func TestReapOnce_NothingExpired(t *testing.T) {
	slots := &fakeSlotRepo{slots: map[int64]*domain.TimeSlot{
		10: pendingSlot(10, 7, time.Minute),
	}}
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		7: {ID: 7, SlotID: 10, Status: domain.StatusPending},
	}}
	dispatcher := &fakeDispatcher{}

	r := New(slots, bookings, fakeTxManager{}, dispatcher, 15*time.Minute, time.Minute, nopLogger{})
	require.NoError(t, r.ReapOnce(context.Background()))

	assert.Empty(t, dispatcher.events)
	assert.Equal(t, domain.StatusPending, bookings.bookings[7].Status)
}

func TestReapOnce_ToleratesTerminalBooking(t *testing.T) {
	slots := &fakeSlotRepo{slots: map[int64]*domain.TimeSlot{
		10: pendingSlot(10, 7, time.Hour),
	}}
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		7: {ID: 7, SlotID: 10, Status: domain.StatusCancelled},
	}}
	dispatcher := &fakeDispatcher{}

	r := New(slots, bookings, fakeTxManager{}, dispatcher, 15*time.Minute, time.Minute, nopLogger{})
	require.NoError(t, r.ReapOnce(context.Background()))

	// Слот освобождён, событие не публикуется повторно
	assert.Equal(t, domain.SlotStatusAvailable, slots.slots[10].Status)
	assert.Empty(t, dispatcher.events)
}

func TestReapOnce_PendingSlotWithoutBooking(t *testing.T) {
	reservedAt := time.Now().UTC().Add(-time.Hour)
	slots := &fakeSlotRepo{slots: map[int64]*domain.TimeSlot{
		10: {ID: 10, Status: domain.SlotStatusPending, ReservedAt: &reservedAt},
	}}
	dispatcher := &fakeDispatcher{}

	r := New(slots, &fakeBookingRepo{}, fakeTxManager{}, dispatcher, 15*time.Minute, time.Minute, nopLogger{})
	require.NoError(t, r.ReapOnce(context.Background()))

	assert.Equal(t, domain.SlotStatusAvailable, slots.slots[10].Status)
	assert.Empty(t, dispatcher.events)
}

package cancel_booking

import (
	"context"
	"strings"
	"testing"

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
	if r.slot.Status != domain.SlotStatusPending {
		return slotRepo.ErrInvalidTransition
	}
	r.slot.Status = outcome
	r.slot.BookingID = nil
	return nil
}

func (r *fakeSlotRepo) ReleaseBooked(ctx context.Context, id int64, to domain.SlotStatus) error {
	if r.slot.Status != domain.SlotStatusBooked {
		return slotRepo.ErrInvalidTransition
	}
	r.slot.Status = to
	r.slot.BookingID = nil
	return nil
}

type fakeBookingRepo struct {
	booking    *domain.Booking
	lastReason string
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *r.booking
	return &cp, nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	if !r.booking.CanBeCancelled() {
		return bookingRepo.ErrInvalidTransition
	}
	r.booking.Status = domain.StatusCancelled
	r.lastReason = reason
	return nil
}

type fakeProfRepo struct {
	prof *domain.Professional
}

func (r *fakeProfRepo) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	return r.prof, nil
}

type fakeDispatcher struct {
	events []domain.BookingEvent
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event domain.BookingEvent) {
	d.events = append(d.events, event)
}

type fixture struct {
	slots      *fakeSlotRepo
	bookings   *fakeBookingRepo
	profs      *fakeProfRepo
	dispatcher *fakeDispatcher
}

func newFixture(bookingStatus domain.BookingStatus) *fixture {
	slotStatus := domain.SlotStatusPending
	if bookingStatus == domain.StatusConfirmed {
		slotStatus = domain.SlotStatusBooked
	}
	bookingID := int64(7)
	return &fixture{
		slots: &fakeSlotRepo{slot: &domain.TimeSlot{
			ID:             10,
			ProfessionalID: 1,
			Status:         slotStatus,
			BookingID:      &bookingID,
		}},
		bookings: &fakeBookingRepo{booking: &domain.Booking{
			ID:             7,
			SlotID:         10,
			ProfessionalID: 1,
			Status:         bookingStatus,
		}},
		profs: &fakeProfRepo{prof: &domain.Professional{
			ID:       1,
			Settings: domain.ProfessionalSettings{AllowCancellations: true},
		}},
		dispatcher: &fakeDispatcher{},
	}
}

func (f *fixture) useCase(reopenCancelled bool) *UseCase {
	return NewUseCase(f.slots, f.bookings, f.profs, fakeTxManager{}, f.dispatcher, reopenCancelled, nopLogger{})
}

func TestExecute_ClientCancelsPending(t *testing.T) {
	f := newFixture(domain.StatusPending)

	resp, err := f.useCase(true).Execute(context.Background(), &Request{
		BookingID: 7,
		Actor:     ActorClient,
		Reason:    "changed my mind",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "changed my mind", *resp.CancellationReason)
	assert.Equal(t, domain.SlotStatusAvailable, f.slots.slot.Status)
	assert.Nil(t, f.slots.slot.BookingID)
	assert.Equal(t, "changed my mind", f.bookings.lastReason)

	require.Len(t, f.dispatcher.events, 1)
	assert.Equal(t, domain.EventBookingCancelled, f.dispatcher.events[0].Type)
}

func TestExecute_ConfirmedReopensSlot(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)

	resp, err := f.useCase(true).Execute(context.Background(), &Request{
		BookingID: 7,
		Actor:     ActorClient,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SlotStatusAvailable, resp.SlotStatus)
	assert.Equal(t, domain.SlotStatusAvailable, f.slots.slot.Status)
	assert.Nil(t, resp.CancellationReason)
}

func TestExecute_ConfirmedRemovesSlotWhenReopenDisabled(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)

	resp, err := f.useCase(false).Execute(context.Background(), &Request{
		BookingID:      7,
		Actor:          ActorProfessional,
		ProfessionalID: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SlotStatusCancelled, resp.SlotStatus)
	assert.Equal(t, domain.SlotStatusCancelled, f.slots.slot.Status)
}

func TestExecute_ClientCancellationDisabled(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)
	f.profs.prof.Settings.AllowCancellations = false

	_, err := f.useCase(true).Execute(context.Background(), &Request{
		BookingID: 7,
		Actor:     ActorClient,
	})
	require.ErrorIs(t, err, ErrCancellationDisabled)

	assert.Equal(t, domain.SlotStatusBooked, f.slots.slot.Status)
	assert.Equal(t, domain.StatusConfirmed, f.bookings.booking.Status)
	assert.Empty(t, f.dispatcher.events)
}

func TestExecute_ProfessionalBypassesCancellationSetting(t *testing.T) {
	f := newFixture(domain.StatusConfirmed)
	f.profs.prof.Settings.AllowCancellations = false

	_, err := f.useCase(true).Execute(context.Background(), &Request{
		BookingID:      7,
		Actor:          ActorProfessional,
		ProfessionalID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, f.bookings.booking.Status)
}

func TestExecute_ProfessionalNotOwner(t *testing.T) {
	f := newFixture(domain.StatusPending)

	_, err := f.useCase(true).Execute(context.Background(), &Request{
		BookingID:      7,
		Actor:          ActorProfessional,
		ProfessionalID: 99,
	})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_TerminalBooking(t *testing.T) {
	f := newFixture(domain.StatusPending)
	f.bookings.booking.Status = domain.StatusRejected

	_, err := f.useCase(true).Execute(context.Background(), &Request{
		BookingID: 7,
		Actor:     ActorClient,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(domain.StatusPending)
	uc := f.useCase(true)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 7, Actor: Actor("bot")})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		BookingID: 7,
		Actor:     ActorClient,
		Reason:    strings.Repeat("x", domain.MaxCancellationReasonLength+1),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

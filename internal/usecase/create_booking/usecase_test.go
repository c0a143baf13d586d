package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/internal/domain"
	professionalRepo "github.com/glowbook/booking-service/internal/infra/storage/professional"
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
	mu   sync.Mutex
	slot *domain.TimeSlot
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slot == nil || r.slot.ID != id {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *r.slot
	return &cp, nil
}

func (r *fakeSlotRepo) Reserve(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slot == nil || r.slot.ID != id {
		return slotRepo.ErrSlotNotFound
	}
	if r.slot.Status != domain.SlotStatusAvailable {
		return slotRepo.ErrSlotNotAvailable
	}
	r.slot.Status = domain.SlotStatusPending
	r.slot.Version++
	return nil
}

func (r *fakeSlotRepo) AttachBooking(ctx context.Context, slotID, bookingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slot.BookingID = &bookingID
	return nil
}

type fakeBookingRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []*domain.Booking
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *booking
	cp.ID = r.nextID
	cp.CreatedAt = time.Now().UTC()
	r.items = append(r.items, &cp)
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

type fakeLocker struct {
	mu       sync.Mutex
	acquired bool
	granted  bool
	err      error
	unlocks  int
}

func (l *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	l.acquired = true
	return l.granted, nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocks++
	return nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event domain.BookingEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
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

	slots := &fakeSlotRepo{slot: &domain.TimeSlot{
		ID:             10,
		ProfessionalID: 1,
		Date:           time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:      mustTime(t, "10:00"),
		EndTime:        mustTime(t, "11:00"),
		Status:         domain.SlotStatusAvailable,
	}}
	bookings := &fakeBookingRepo{}
	profs := &fakeProfRepo{prof: &domain.Professional{ID: 1}}
	dispatcher := &fakeDispatcher{}

	uc := NewUseCase(
		slots,
		bookings,
		profs,
		&fakeLocker{granted: true},
		10*time.Second,
		fakeTxManager{},
		dispatcher,
		nopLogger{},
	)
	return uc, slots, bookings, dispatcher
}

func validRequest() *Request {
	return &Request{
		ProfessionalID: 1,
		SlotID:         10,
		ClientName:     "Anna Petrova",
		ClientEmail:    "anna@example.com",
		ClientPhone:    "+15550001122",
		Service:        "Hair Styling",
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	uc, slots, bookings, dispatcher := newFixture(t)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(10), resp.SlotID)
	assert.Equal(t, "Hair Styling", resp.Service)
	assert.Equal(t, mustTime(t, "10:00"), resp.StartTime)

	assert.Equal(t, domain.SlotStatusPending, slots.slot.Status)
	require.NotNil(t, slots.slot.BookingID)
	assert.Equal(t, resp.ID, *slots.slot.BookingID)

	require.Len(t, bookings.items, 1)
	assert.Equal(t, domain.StatusPending, bookings.items[0].Status)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventBookingRequested, dispatcher.events[0].Type)
	assert.Equal(t, resp.ID, dispatcher.events[0].Booking.ID)
	assert.Equal(t, domain.SlotStatusPending, dispatcher.events[0].Slot.Status)
}

func TestExecute_ConcurrentRequestsSingleWinner(t *testing.T) {
	uc, slots, bookings, dispatcher := newFixture(t)

	const workers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, ErrSlotConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, domain.SlotStatusPending, slots.slot.Status)
	assert.Len(t, bookings.items, 1)
	assert.Len(t, dispatcher.events, 1)
}

func TestExecute_LockNotAcquired(t *testing.T) {
	slots := &fakeSlotRepo{slot: &domain.TimeSlot{ID: 10, ProfessionalID: 1, Status: domain.SlotStatusAvailable}}
	bookings := &fakeBookingRepo{}
	dispatcher := &fakeDispatcher{}

	uc := NewUseCase(
		slots,
		bookings,
		&fakeProfRepo{prof: &domain.Professional{ID: 1}},
		&fakeLocker{granted: false},
		10*time.Second,
		fakeTxManager{},
		dispatcher,
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotConflict)

	// Слот не тронут, событие не опубликовано
	assert.Equal(t, domain.SlotStatusAvailable, slots.slot.Status)
	assert.Empty(t, bookings.items)
	assert.Empty(t, dispatcher.events)
}

func TestExecute_LockErrorFallsBackToStorageGuard(t *testing.T) {
	slots := &fakeSlotRepo{slot: &domain.TimeSlot{
		ID:             10,
		ProfessionalID: 1,
		Date:           time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:      mustTime(t, "10:00"),
		EndTime:        mustTime(t, "11:00"),
		Status:         domain.SlotStatusAvailable,
	}}
	locker := &fakeLocker{err: context.DeadlineExceeded}

	uc := NewUseCase(
		slots,
		&fakeBookingRepo{},
		&fakeProfRepo{prof: &domain.Professional{ID: 1}},
		locker,
		10*time.Second,
		fakeTxManager{},
		&fakeDispatcher{},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Zero(t, locker.unlocks)
}

func TestExecute_SlotOfAnotherProfessional(t *testing.T) {
	uc, slots, _, dispatcher := newFixture(t)
	slots.slot.ProfessionalID = 2

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotNotFound)
	assert.Empty(t, dispatcher.events)
}

func TestExecute_BookedSlotRejectsNewReservation(t *testing.T) {
	uc, slots, bookings, dispatcher := newFixture(t)

	// Первая заявка резервирует слот: available -> pending
	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Профессионал подтверждает заявку: pending -> booked
	slots.mu.Lock()
	require.Equal(t, domain.SlotStatusPending, slots.slot.Status)
	slots.slot.Status = domain.SlotStatusBooked
	slots.mu.Unlock()

	// Повторное резервирование занятого слота отклоняется без изменений
	_, err = uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotConflict)

	assert.Equal(t, domain.SlotStatusBooked, slots.slot.Status)
	require.NotNil(t, slots.slot.BookingID)
	assert.Equal(t, resp.ID, *slots.slot.BookingID)
	assert.Len(t, bookings.items, 1)
	assert.Len(t, dispatcher.events, 1)
}

func TestExecute_SlotAlreadyReserved(t *testing.T) {
	uc, slots, bookings, _ := newFixture(t)
	slots.slot.Status = domain.SlotStatusPending

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, bookings.items)
}

func TestExecute_Validation(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"empty client name", func(r *Request) { r.ClientName = "  " }},
		{"empty email", func(r *Request) { r.ClientEmail = "" }},
		{"malformed email", func(r *Request) { r.ClientEmail = "not-an-email" }},
		{"empty service", func(r *Request) { r.Service = "" }},
		{"non-positive slot", func(r *Request) { r.SlotID = 0 }},
		{"non-positive professional", func(r *Request) { r.ProfessionalID = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

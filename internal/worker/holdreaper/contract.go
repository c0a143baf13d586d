package holdreaper

import (
	"context"
	"time"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/internal/infra/storage/slot"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	ReleaseExpired(ctx context.Context, cutoff time.Time) ([]slot.ExpiredHold, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher интерфейс публикации событий бронирования
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.BookingEvent)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

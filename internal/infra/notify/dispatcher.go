package notify

import (
	"context"

	"github.com/glowbook/booking-service/internal/domain"
)

// Dispatcher публикует события жизненного цикла бронирований
// Контракт: Dispatch не блокирует транзакцию, породившую событие,
// и его ошибки никогда не откатывают зафиксированный переход
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.BookingEvent)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopDispatcher диспетчер-заглушка, когда публикация событий выключена
type NopDispatcher struct{}

// Dispatch ничего не делает
func (NopDispatcher) Dispatch(_ context.Context, _ domain.BookingEvent) {}

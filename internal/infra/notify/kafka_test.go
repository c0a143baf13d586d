package notify

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) snapshot() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

func newEvent(bookingID int64, eventType domain.EventType) domain.BookingEvent {
	return domain.NewBookingEvent(eventType,
		domain.Booking{ID: bookingID, SlotID: 10, ProfessionalID: 1, Status: domain.StatusPending},
		domain.TimeSlot{ID: 10, ProfessionalID: 1, Status: domain.SlotStatusPending})
}

func TestKafkaDispatcher_PublishesQueuedEvents(t *testing.T) {
	writer := &fakeWriter{}
	d := NewKafkaDispatcherWithWriter(writer, KafkaDispatcherConfig{
		TopicPrefix: "glowbook.",
		QueueSize:   8,
	}, nopLogger{}, nil)

	d.Dispatch(context.Background(), newEvent(7, domain.EventBookingRequested))
	d.Dispatch(context.Background(), newEvent(8, domain.EventBookingConfirmed))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(writer.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	msgs := writer.snapshot()
	assert.Equal(t, "glowbook.booking.requested", msgs[0].Topic)
	assert.Equal(t, []byte("7"), msgs[0].Key)

	var decoded domain.BookingEvent
	require.NoError(t, json.Unmarshal(msgs[0].Value, &decoded))
	assert.Equal(t, domain.EventBookingRequested, decoded.Type)
	assert.Equal(t, int64(7), decoded.Booking.ID)

	assert.True(t, writer.closed)
}

func TestKafkaDispatcher_DrainsQueueOnShutdown(t *testing.T) {
	writer := &fakeWriter{}
	d := NewKafkaDispatcherWithWriter(writer, KafkaDispatcherConfig{
		TopicPrefix: "glowbook.",
		QueueSize:   8,
	}, nopLogger{}, nil)

	for i := int64(1); i <= 5; i++ {
		d.Dispatch(context.Background(), newEvent(i, domain.EventBookingCancelled))
	}

	// Контекст отменён до старта: Run обязан дописать очередь перед выходом
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	assert.Len(t, writer.snapshot(), 5)
	assert.True(t, writer.closed)
}

func TestKafkaDispatcher_DropsEventWhenQueueFull(t *testing.T) {
	writer := &fakeWriter{}
	d := NewKafkaDispatcherWithWriter(writer, KafkaDispatcherConfig{
		TopicPrefix: "glowbook.",
		QueueSize:   1,
	}, nopLogger{}, nil)

	// Run не запущен, очередь никто не выгребает
	d.Dispatch(context.Background(), newEvent(1, domain.EventBookingRequested))
	d.Dispatch(context.Background(), newEvent(2, domain.EventBookingRequested))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	// Второе событие сброшено, доставлено только первое
	msgs := writer.snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte("1"), msgs[0].Key)
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/metrics"
)

// MessageWriter интерфейс писателя Kafka-сообщений (для подмены в тестах)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaDispatcher публикует события бронирований в Kafka
// Dispatch кладет событие во внутреннюю очередь и сразу возвращается;
// фоновая горутина Run выгребает очередь и пишет в брокер с ретраями.
// Семантика доставки at-least-once: переполнение очереди роняет событие
// с логом об ошибке, но никогда не блокирует вызывающего
type KafkaDispatcher struct {
	writer      MessageWriter
	topicPrefix string
	queue       chan domain.BookingEvent
	logger      Logger
	m           *metrics.Metrics
}

// KafkaDispatcherConfig конфигурация диспетчера
type KafkaDispatcherConfig struct {
	Brokers     []string
	TopicPrefix string
	QueueSize   int
}

// NewKafkaDispatcher создает диспетчер с writer-ом по умолчанию
func NewKafkaDispatcher(cfg KafkaDispatcherConfig, logger Logger, m *metrics.Metrics) *KafkaDispatcher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}
	return NewKafkaDispatcherWithWriter(writer, cfg, logger, m)
}

// NewKafkaDispatcherWithWriter создает диспетчер с внешним writer-ом
func NewKafkaDispatcherWithWriter(writer MessageWriter, cfg KafkaDispatcherConfig, logger Logger, m *metrics.Metrics) *KafkaDispatcher {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	return &KafkaDispatcher{
		writer:      writer,
		topicPrefix: cfg.TopicPrefix,
		queue:       make(chan domain.BookingEvent, queueSize),
		logger:      logger,
		m:           m,
	}
}

// Dispatch ставит событие в очередь публикации, не блокируя вызывающего
// Переполнение очереди не ошибка для вызывающего: переход уже зафиксирован
func (d *KafkaDispatcher) Dispatch(_ context.Context, event domain.BookingEvent) {
	select {
	case d.queue <- event:
	default:
		d.logger.Error("notify: dispatch queue full, dropping event id=%s type=%s booking=%d",
			event.ID, event.Type, event.Booking.ID)
		if d.m != nil {
			d.m.EventsDroppedTotal.Inc()
		}
	}
}

// Run выгребает очередь и публикует события до отмены контекста
// После отмены дописывает накопившиеся события и закрывает writer
func (d *KafkaDispatcher) Run(ctx context.Context) {
	defer d.writer.Close()

	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case event := <-d.queue:
			d.publish(event)
		}
	}
}

func (d *KafkaDispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.publish(event)
		default:
			return
		}
	}
}

func (d *KafkaDispatcher) publish(event domain.BookingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("notify: failed to marshal event id=%s: %v", event.ID, err)
		return
	}

	msg := kafka.Message{
		Topic: fmt.Sprintf("%s%s", d.topicPrefix, event.Type),
		Key:   []byte(strconv.FormatInt(event.Booking.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	// Отдельный контекст с таймаутом: Run-контекст к этому моменту
	// может быть уже отменён, а события терять не хочется
	writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := "ok"
	if err := d.writer.WriteMessages(writeCtx, msg); err != nil {
		status = "error"
		d.logger.Error("notify: failed to publish event id=%s type=%s: %v", event.ID, event.Type, err)
	} else {
		d.logger.Info("notify: published event id=%s type=%s booking=%d", event.ID, event.Type, event.Booking.ID)
	}

	if d.m != nil {
		d.m.EventsPublishedTotal.WithLabelValues(string(event.Type), status).Inc()
	}
}

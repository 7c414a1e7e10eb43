package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Типы событий жизненного цикла бронирования
const (
	EventBookingCreated     = "booking.created"
	EventBookingCheckedIn   = "booking.checked_in"
	EventBookingServed      = "booking.served"
	EventBookingNoShow      = "booking.no_show"
	EventBookingCancelled   = "booking.cancelled"
)

// BookingEvent событие изменения бронирования для аналитики
// Поток событий - история для внешних читателей (отчеты, аналитика),
// не канал уведомлений: публикация best-effort и не влияет на исход запроса
type BookingEvent struct {
	EventID     string               `json:"eventId"`
	Type        string               `json:"type"`
	BookingID   int64                `json:"bookingId"`
	SessionID   int64                `json:"sessionId"`
	SlotID      int64                `json:"slotId"`
	CustomerID  int64                `json:"customerId"`
	BookingCode string               `json:"bookingCode"`
	Status      domain.BookingStatus `json:"status"`
	OccurredAt  time.Time            `json:"occurredAt"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований
type Publisher interface {
	PublishBookingEvent(ctx context.Context, evt BookingEvent) error
	Close() error
}

// KafkaPublisher публикует события в Kafka
// Ключ сообщения - ID бронирования, чтобы события одного бронирования
// попадали в одну партицию и сохраняли порядок
type KafkaPublisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewKafkaPublisher создает publisher для указанных брокеров и топика
func NewKafkaPublisher(brokers []string, topic string, log Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...interface{}) {}),
		ErrorLogger:  kafka.LoggerFunc(log.Error),
	}

	return &KafkaPublisher{writer: writer, log: log}
}

// PublishBookingEvent публикует событие бронирования
func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, evt BookingEvent) error {
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("events: marshal booking event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.BookingID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(evt.EventID)},
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write booking event: %w", err)
	}

	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher заглушка, когда публикация событий отключена
type NoopPublisher struct{}

// PublishBookingEvent ничего не делает
func (NoopPublisher) PublishBookingEvent(ctx context.Context, evt BookingEvent) error {
	return nil
}

// Close ничего не делает
func (NoopPublisher) Close() error {
	return nil
}

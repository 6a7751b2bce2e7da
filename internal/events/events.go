// Package events публикует доменные события фронт-деска в RabbitMQ
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Ключи маршрутизации событий
const (
	BookingCheckedIn        = "booking.checked_in"
	BookingReceiptRecorded  = "booking.receipt_recorded"
	BookingExtended         = "booking.extended"
	BookingCheckedOut       = "booking.checked_out"
	RoomExtensionDue        = "room.extension_due"
	AdvanceBookingCompleted = "advance_booking.completed"
	AdvanceBookingCancelled = "advance_booking.cancelled"
	CollectionRecorded      = "collection.recorded"
)

// Envelope обёртка тела сообщения
type Envelope struct {
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher публикует JSON-сообщения в topic exchange
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

func NewPublisher(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	logger.Info("Events publisher connected", zap.String("exchange", exchange))
	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// Publish отправляет payload с ключом key
func (p *Publisher) Publish(ctx context.Context, key string, payload any) error {
	body, err := Encode(key, payload, time.Now())
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	p.logger.Debug("Event published", zap.String("key", key))
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Encode сериализует событие в конверт
func Encode(key string, payload any, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Envelope{Key: key, OccurredAt: at, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", key, err)
	}
	return body, nil
}

// Nop публикатор, когда RABBIT_URL не задан
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

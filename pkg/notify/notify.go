// Package notify publishes shift status-change events so dashboards can
// react without polling the database. The transport is RabbitMQ, but the
// lifecycle services only see the StatusNotifier interface.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
)

const exchangeName = "shifts_topic"

// StatusNotifier receives lifecycle transitions. Implementations must be
// safe to skip: the core keeps operating when no broker is configured.
type StatusNotifier interface {
	ShiftStatusChanged(ctx context.Context, event model.StatusChangedEvent) error
}

// Publisher is an AMQP-backed StatusNotifier. A nil *Publisher is a valid
// no-op notifier.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker and declares the shifts topic exchange
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

// Close releases the channel and connection
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// ShiftStatusChanged publishes the event with routing key
// shift.status_changed.<status> as a persistent JSON message
func (p *Publisher) ShiftStatusChanged(ctx context.Context, event model.StatusChangedEvent) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode status event: %w", err)
	}

	key := fmt.Sprintf("shift.status_changed.%s", event.Status)
	err = p.ch.PublishWithContext(ctx, exchangeName, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}
	return nil
}

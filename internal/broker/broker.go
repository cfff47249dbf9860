package broker

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"
)

// Broker is a connected RabbitMQ channel bound to the topic exchange every
// queue in spec.md §6 shares. One Broker is opened per process and closed
// at shutdown (spec.md §5's resource lifetime rule).
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker at url and declares the shared exchange.
func Dial(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("broker: declare exchange: %w", err)
	}
	return &Broker{conn: conn, ch: ch}, nil
}

// Close releases the channel and connection.
func (b *Broker) Close() error {
	chErr := b.ch.Close()
	connErr := b.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}

// Publish sends body to queue, routed through the shared exchange under
// queue's own name as routing key.
func (b *Broker) Publish(ctx context.Context, queue string, body []byte) error {
	return b.ch.Publish(exchange, queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Subscribe declares queue (if it does not exist), binds it to the shared
// exchange under its own name, and returns its delivery channel. Deliveries
// are manually acknowledged by the caller once a message is fully handled.
func (b *Broker) Subscribe(queue string) (<-chan amqp.Delivery, error) {
	q, err := b.ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("broker: declare queue %s: %w", queue, err)
	}
	if err := b.ch.QueueBind(q.Name, q.Name, exchange, false, nil); err != nil {
		return nil, fmt.Errorf("broker: bind queue %s: %w", queue, err)
	}
	deliveries, err := b.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("broker: consume queue %s: %w", queue, err)
	}
	return deliveries, nil
}

package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/eventella/internal/queue"
)

// AMQPPublisher publishes booking lifecycle messages to RabbitMQ.  Each
// publish dials its own connection; booking writes are rare enough that a
// long-lived channel is not worth the reconnect handling.
type AMQPPublisher struct {
	URL     string
	Timeout time.Duration
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Timeout: 3 * time.Second}
}

// PublishBookingEvent sends ev to the durable queue named after its type.
// Messages are persistent JSON.
func (p *AMQPPublisher) PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.Timeout)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	name := ev.Queue()
	if err := queue.Declare(ch, name); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	return ch.PublishWithContext(ctx,
		"",    // default exchange
		name,  // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

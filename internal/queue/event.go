// Package queue defines the booking lifecycle messages exchanged over
// RabbitMQ and the consumer that records them in the booking log.
package queue

import amqp "github.com/rabbitmq/amqp091-go"

// BookingEventType names a lifecycle transition.  It doubles as the
// queue name the message is routed to.
type BookingEventType string

const (
	BookingConfirmed BookingEventType = "booking.confirmed"
	BookingCancelled BookingEventType = "booking.cancelled"
)

// Queues lists every queue the consumer listens on.
var Queues = []BookingEventType{BookingConfirmed, BookingCancelled}

// BookingEvent is published after a booking is created or cancelled.  It
// carries enough detail for downstream consumers to log or notify without
// querying the primary database.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  uint64           `json:"booking_id"`
	UserID     uint64           `json:"user_id"`
	EventID    uint64           `json:"event_id"`
	EventTitle string           `json:"event_title,omitempty"`
	Seats      int              `json:"seats"`
	TotalPrice float64          `json:"total_price"`
	Status     string           `json:"status"`
	OccurredAt string           `json:"occurred_at"`
}

// Queue returns the queue ev is routed to.
func (ev BookingEvent) Queue() string {
	if ev.Type == "" {
		return string(BookingConfirmed)
	}
	return string(ev.Type)
}

// Declare ensures a durable queue exists.  It is idempotent and shared by
// the publisher and the consumer so both agree on the queue arguments.
func Declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	return err
}

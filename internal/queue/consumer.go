package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking queues
// and appends one line per message to out.  It reconnects with exponential
// backoff (capped at 30s) whenever the broker goes away and returns only
// when ctx is cancelled.  Messages that cannot be decoded are rejected
// without requeue so a poison message cannot spin the loop.
func StartBookingConsumer(ctx context.Context, url string, out, log *zap.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("booking-consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect
		log.Info("booking-consumer: connected")

		err = consumeLoop(ctx, conn, out, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("booking-consumer: consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, out, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("booking-consumer: set QoS failed", zap.Error(err))
	}

	// Fan both queues into one channel of deliveries.
	merged := make(chan amqp.Delivery)
	done := make(chan struct{})
	defer close(done)
	for _, q := range Queues {
		if err := Declare(ch, string(q)); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(string(q), "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		go func(msgs <-chan amqp.Delivery) {
			for d := range msgs {
				select {
				case merged <- d:
				case <-done:
					return
				}
			}
		}(msgs)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr == nil {
				return errors.New("connection closed")
			}
			return amqpErr
		case d := <-merged:
			if err := handleMessage(d.Body, out); err != nil {
				log.Warn("booking-consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleMessage decodes one BookingEvent and writes its log line.
func handleMessage(body []byte, out *zap.Logger) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == 0 {
		return errors.New("message has no booking_id")
	}
	out.Info(FormatLine(ev))
	return nil
}

// FormatLine renders ev as the single human-readable booking log line.
func FormatLine(ev BookingEvent) string {
	verb := "Booking confirmed"
	if ev.Type == BookingCancelled {
		verb = "Booking cancelled"
	}
	return fmt.Sprintf("[%s] %s | booking_id=%d | user_id=%d | event_id=%d | event=%q | seats=%d | total=%.2f | status=%s",
		ev.OccurredAt, verb, ev.BookingID, ev.UserID, ev.EventID, ev.EventTitle, ev.Seats, ev.TotalPrice, ev.Status)
}

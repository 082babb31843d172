package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/eventella/internal/queue"
)

// outboxSize bounds the booking events waiting for the broker.  When it is
// full new events are dropped and logged.
const outboxSize = 256

// outbox hands booking events to one background goroutine so a slow or
// unreachable broker never delays a booking response.  Events are published
// in the order they were enqueued.
type outbox struct {
	pub     EventPublisher
	log     *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	ch     chan queue.BookingEvent
	done   chan struct{}
}

func newOutbox(pub EventPublisher, log *zap.Logger) *outbox {
	o := &outbox{
		pub:     pub,
		log:     log,
		timeout: 10 * time.Second,
		ch:      make(chan queue.BookingEvent, outboxSize),
		done:    make(chan struct{}),
	}
	go o.run()
	return o
}

// enqueue never blocks.  It reports false when the event was dropped.
func (o *outbox) enqueue(ev queue.BookingEvent) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return false
	}
	select {
	case o.ch <- ev:
		return true
	default:
		return false
	}
}

func (o *outbox) run() {
	defer close(o.done)
	for ev := range o.ch {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		err := o.pub.PublishBookingEvent(ctx, ev)
		cancel()
		if err != nil {
			o.log.Warn("booking event publish failed", zap.Error(err),
				zap.String("type", string(ev.Type)), zap.Uint64("booking_id", ev.BookingID))
		}
	}
}

// close stops accepting events and waits until the queued ones have been
// published or ctx ends.
func (o *outbox) close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.ch)
	}
	o.mu.Unlock()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/queue"
	"github.com/iliyamo/eventella/internal/repository"
)

// CreateBookingInput is the body of POST /api/bookings.  Seats is a
// float so that a fractional value reaches validation instead of failing
// JSON decoding with a less helpful message.
type CreateBookingInput struct {
	EventID uint64  `json:"eventId"`
	Seats   float64 `json:"seats"`
}

var errTotalTooLarge = errors.New("booking total too large")

// BookingService moves seats between events and bookings.  Each create or
// cancel runs in a single store transaction holding the relevant row
// locks, so concurrent requests for the same event are serialized.
type BookingService struct {
	bookings BookingStore
	cache    CatalogCache
	outbox   *outbox
	log      *zap.Logger
}

// NewBookingService wires the booking flow.  cache and publisher may be nil.
func NewBookingService(bookings BookingStore, cache CatalogCache, publisher EventPublisher, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &BookingService{bookings: bookings, cache: cache, log: log}
	if publisher != nil {
		s.outbox = newOutbox(publisher, log)
	}
	return s
}

// Close waits for queued booking events to reach the broker, or for ctx to
// end.  Bookings made after Close are not published.
func (s *BookingService) Close(ctx context.Context) error {
	if s.outbox == nil {
		return nil
	}
	return s.outbox.close(ctx)
}

// Create reserves seats on an event for userID.  The price is frozen at
// event.Price * seats.
func (s *BookingService) Create(ctx context.Context, userID uint64, in CreateBookingInput) (model.Booking, error) {
	if in.EventID == 0 {
		return model.Booking{}, newError(ErrValidation, "eventId is required")
	}
	if in.Seats <= 0 || in.Seats > maxSeats || in.Seats != math.Trunc(in.Seats) {
		return model.Booking{}, newError(ErrValidation, "seats must be a positive integer")
	}
	seats := int(in.Seats)

	var (
		b     model.Booking
		title string
	)
	err := s.bookings.InTx(ctx, func(tx repository.BookingTx) error {
		ev, err := tx.LockEvent(ctx, in.EventID)
		if err != nil {
			return err
		}
		if ev.AvailableSeats < seats {
			return repository.ErrInsufficientSeats
		}
		total := roundCents(ev.Price * float64(seats))
		if total > maxTotalPrice {
			return errTotalTooLarge
		}
		title = ev.Title
		b = model.Booking{
			UserID:     userID,
			EventID:    ev.ID,
			Seats:      seats,
			TotalPrice: total,
			Status:     model.BookingConfirmed,
		}
		if err := tx.InsertBooking(ctx, &b); err != nil {
			return err
		}
		return tx.AdjustSeats(ctx, ev.ID, -seats)
	})
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return model.Booking{}, newError(ErrNotFound, "Event not found")
	case errors.Is(err, repository.ErrInsufficientSeats):
		return model.Booking{}, newError(ErrInsufficientInventory, "Not enough available seats")
	case errors.Is(err, errTotalTooLarge), errors.Is(err, repository.ErrOutOfRange):
		return model.Booking{}, newError(ErrValidation, "booking total exceeds the maximum")
	case err != nil:
		return model.Booking{}, err
	}

	s.afterWrite(ctx, queue.BookingConfirmed, b, title)
	return b, nil
}

// Cancel moves a confirmed booking owned by userID to Cancelled and
// returns its seats to the event, if the event still exists.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) (model.Booking, error) {
	var b model.Booking
	err := s.bookings.InTx(ctx, func(tx repository.BookingTx) error {
		var err error
		b, err = tx.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrForbidden
		}
		if b.Status != model.BookingConfirmed {
			return repository.ErrStatusChanged
		}
		if err := tx.SetBookingStatus(ctx, b.ID, model.BookingConfirmed, model.BookingCancelled); err != nil {
			return err
		}
		b.Status = model.BookingCancelled
		b.UpdatedAt = time.Now().UTC()
		if err := tx.AdjustSeats(ctx, b.EventID, b.Seats); err != nil && !errors.Is(err, repository.ErrEventNotFound) {
			return err
		}
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return model.Booking{}, newError(ErrNotFound, "Booking not found")
	case errors.Is(err, ErrForbidden):
		return model.Booking{}, newError(ErrForbidden, "Not authorized")
	case errors.Is(err, repository.ErrStatusChanged):
		return model.Booking{}, newError(ErrInvalidState, "Booking already cancelled")
	case errors.Is(err, repository.ErrOutOfRange):
		return model.Booking{}, newError(ErrInvalidState, "Event cannot take back these seats")
	case err != nil:
		return model.Booking{}, err
	}

	s.afterWrite(ctx, queue.BookingCancelled, b, "")
	return b, nil
}

// ListMine returns the user's bookings whose event still exists.
func (s *BookingService) ListMine(ctx context.Context, userID uint64) ([]model.UserBooking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ListAll returns every booking, including those whose event was deleted.
func (s *BookingService) ListAll(ctx context.Context) ([]model.AdminBooking, error) {
	return s.bookings.ListAll(ctx)
}

// afterWrite runs the best-effort side effects of a committed booking
// change.  Failures are logged and never reach the caller; the broker
// message is queued and published in the background.
func (s *BookingService) afterWrite(ctx context.Context, kind queue.BookingEventType, b model.Booking, title string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("catalog cache invalidation failed", zap.Error(err), zap.Uint64("booking_id", b.ID))
		}
	}
	if s.outbox == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:       kind,
		BookingID:  b.ID,
		UserID:     b.UserID,
		EventID:    b.EventID,
		EventTitle: title,
		Seats:      b.Seats,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if !s.outbox.enqueue(ev) {
		s.log.Warn("booking event dropped", zap.String("type", string(kind)), zap.Uint64("booking_id", b.ID))
	}
}

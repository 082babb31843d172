package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/repository"
)

// EventInput is the body of POST and PUT /api/events.  Pointer fields
// distinguish "absent" from a zero value, which creation needs to tell a
// missing price from a free event.
type EventInput struct {
	Title          *string  `json:"title"`
	Category       *string  `json:"category"`
	Location       *string  `json:"location"`
	Date           *string  `json:"date"`
	Price          *float64 `json:"price"`
	AvailableSeats *int     `json:"availableSeats"`
	ImageURL       *string  `json:"imageURL"`
	Description    *string  `json:"description"`
	Artist         *string  `json:"artist"`
}

// QueryInput carries the raw catalog query parameters.
type QueryInput struct {
	Category string
	Location string
	MaxPrice string
	Q        string
}

// EventService implements the catalog: public reads and admin CRUD.
type EventService struct {
	events EventStore
	cache  CatalogCache
	log    *zap.Logger
}

// NewEventService wires the catalog.  cache may be nil.
func NewEventService(events EventStore, cache CatalogCache, log *zap.Logger) *EventService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventService{events: events, cache: cache, log: log}
}

// dateLayouts are accepted for event dates, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, newError(ErrValidation, "date is invalid")
}

// Query returns the events matching every supplied filter.  A maxPrice
// that is not a number is ignored.
func (s *EventService) Query(ctx context.Context, in QueryInput) ([]model.Event, error) {
	q := repository.EventQuery{
		Category: in.Category,
		Location: in.Location,
		Q:        in.Q,
	}
	if mp := strings.TrimSpace(in.MaxPrice); mp != "" {
		if v, err := strconv.ParseFloat(mp, 64); err == nil {
			q.MaxPrice = &v
		}
	}
	return s.events.Search(ctx, q)
}

// GetByID returns a single event.
func (s *EventService) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if errors.Is(err, repository.ErrEventNotFound) {
		return model.Event{}, newError(ErrNotFound, "Event not found")
	}
	return e, err
}

// Create validates and stores a new event.  Every field except artist is
// required.
func (s *EventService) Create(ctx context.Context, in EventInput) (model.Event, error) {
	var missing []string
	str := func(p *string, name string) string {
		if p == nil || strings.TrimSpace(*p) == "" {
			missing = append(missing, name)
			return ""
		}
		return *p
	}
	e := model.Event{
		Title:       str(in.Title, "title"),
		Category:    model.Category(str(in.Category, "category")),
		Location:    str(in.Location, "location"),
		ImageURL:    str(in.ImageURL, "imageURL"),
		Description: str(in.Description, "description"),
	}
	date := str(in.Date, "date")
	if in.Price == nil {
		missing = append(missing, "price")
	} else {
		e.Price = roundCents(*in.Price)
	}
	if in.AvailableSeats == nil {
		missing = append(missing, "availableSeats")
	} else {
		e.AvailableSeats = *in.AvailableSeats
	}
	if len(missing) > 0 {
		return model.Event{}, newError(ErrValidation, strings.Join(missing, ", ")+" required")
	}
	d, err := parseDate(date)
	if err != nil {
		return model.Event{}, err
	}
	e.Date = d
	if in.Artist != nil {
		e.Artist = strings.TrimSpace(*in.Artist)
	}
	if err := validateEvent(e); err != nil {
		return model.Event{}, err
	}
	if err := s.events.Create(ctx, &e); err != nil {
		if errors.Is(err, repository.ErrOutOfRange) {
			return model.Event{}, newError(ErrValidation, "a value is out of range")
		}
		return model.Event{}, err
	}
	s.invalidate(ctx)
	return e, nil
}

// Update applies the truthy fields of in to the stored event: empty
// strings, zero numbers and absent fields keep the stored value.  The
// result is validated as a whole before it is written.
func (s *EventService) Update(ctx context.Context, id uint64, in EventInput) (model.Event, error) {
	e, err := s.events.Update(ctx, id, func(e *model.Event) error {
		if err := applyTruthy(e, in); err != nil {
			return err
		}
		return validateEvent(*e)
	})
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return model.Event{}, newError(ErrNotFound, "Event not found")
	case errors.Is(err, repository.ErrOutOfRange):
		return model.Event{}, newError(ErrValidation, "a value is out of range")
	case err != nil:
		return model.Event{}, err
	}
	s.invalidate(ctx)
	return e, nil
}

// Delete removes an event.  Its bookings stay behind.
func (s *EventService) Delete(ctx context.Context, id uint64) error {
	err := s.events.Delete(ctx, id)
	if errors.Is(err, repository.ErrEventNotFound) {
		return newError(ErrNotFound, "Event not found")
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func applyTruthy(e *model.Event, in EventInput) error {
	set := func(dst *string, p *string) {
		if p != nil && *p != "" {
			*dst = *p
		}
	}
	set(&e.Title, in.Title)
	if in.Category != nil && *in.Category != "" {
		e.Category = model.Category(*in.Category)
	}
	set(&e.Location, in.Location)
	set(&e.ImageURL, in.ImageURL)
	set(&e.Description, in.Description)
	set(&e.Artist, in.Artist)
	if in.Date != nil && *in.Date != "" {
		d, err := parseDate(*in.Date)
		if err != nil {
			return err
		}
		e.Date = d
	}
	if in.Price != nil && *in.Price != 0 {
		e.Price = roundCents(*in.Price)
	}
	if in.AvailableSeats != nil && *in.AvailableSeats != 0 {
		e.AvailableSeats = *in.AvailableSeats
	}
	return nil
}

// Column limits of the events and bookings tables.
const (
	maxPrice      = 99_999_999.99    // events.price DECIMAL(10,2)
	maxSeats      = 4_294_967_295    // events.available_seats INT UNSIGNED
	maxTotalPrice = 9_999_999_999.99 // bookings.total_price DECIMAL(12,2)
)

// roundCents rounds to the two decimals money is stored with, so a
// response shows exactly what was persisted.
func roundCents(v float64) float64 { return math.Round(v*100) / 100 }

func validateEvent(e model.Event) error {
	switch {
	case !e.Category.Valid():
		return newError(ErrValidation, "`"+string(e.Category)+"` is not a valid category")
	case e.Price < 0:
		return newError(ErrValidation, "price must not be negative")
	case e.Price > maxPrice:
		return newError(ErrValidation, "price must not exceed 99999999.99")
	case e.AvailableSeats < 0:
		return newError(ErrValidation, "availableSeats must not be negative")
	case int64(e.AvailableSeats) > maxSeats:
		return newError(ErrValidation, "availableSeats must not exceed 4294967295")
	case e.Date.IsZero():
		return newError(ErrValidation, "date is required")
	}
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

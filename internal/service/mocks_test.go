package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/queue"
	"github.com/iliyamo/eventella/internal/repository"
)

// memDB is an in-memory stand-in for MySQL.  A single mutex plays the role
// of the row locks: InTx holds it for the whole transaction.
type memDB struct {
	mu       sync.Mutex
	nextID   uint64
	users    map[uint64]model.User
	events   map[uint64]model.Event
	bookings map[uint64]model.Booking
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[uint64]model.User{},
		events:   map[uint64]model.Event{},
		bookings: map[uint64]model.Booking{},
	}
}

func (db *memDB) id() uint64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) addEvent(e model.Event) model.Event {
	db.mu.Lock()
	defer db.mu.Unlock()
	e.ID = db.id()
	e.CreatedAt = time.Now()
	db.events[e.ID] = e
	return e
}

func (db *memDB) event(id uint64) model.Event {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.events[id]
}

// MockUserStore implements UserStore.
type MockUserStore struct{ db *memDB }

func (m MockUserStore) Create(_ context.Context, u *model.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, existing := range m.db.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = m.db.id()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.db.users[u.ID] = *u
	return nil
}

func (m MockUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, u := range m.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m MockUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m MockUserStore) SetRole(_ context.Context, id uint64, role model.Role) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	m.db.users[id] = u
	return nil
}

// MockEventStore implements EventStore.
type MockEventStore struct{ db *memDB }

func (m MockEventStore) Create(_ context.Context, e *model.Event) error {
	*e = m.db.addEvent(*e)
	return nil
}

func (m MockEventStore) GetByID(_ context.Context, id uint64) (model.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.events[id]
	if !ok {
		return model.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (m MockEventStore) Update(_ context.Context, id uint64, apply func(*model.Event) error) (model.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.events[id]
	if !ok {
		return model.Event{}, repository.ErrEventNotFound
	}
	if err := apply(&e); err != nil {
		return model.Event{}, err
	}
	m.db.events[id] = e
	return e, nil
}

func (m MockEventStore) Delete(_ context.Context, id uint64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(m.db.events, id)
	return nil
}

func (m MockEventStore) Search(_ context.Context, q repository.EventQuery) ([]model.Event, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	has := func(field, sub string) bool {
		return strings.Contains(strings.ToLower(field), strings.ToLower(sub))
	}
	out := []model.Event{}
	for _, e := range m.db.events {
		if q.Category != "" && string(e.Category) != q.Category {
			continue
		}
		if loc := strings.TrimSpace(q.Location); loc != "" && !has(e.Location, loc) {
			continue
		}
		if q.MaxPrice != nil && e.Price > *q.MaxPrice {
			continue
		}
		if text := strings.TrimSpace(q.Q); text != "" &&
			!(has(e.Title, text) || has(e.Description, text) || has(e.Location, text) ||
				has(e.Artist, text) || has(string(e.Category), text)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockBookingStore implements BookingStore with copy-on-write
// transactions: changes become visible only when fn succeeds.
type MockBookingStore struct{ db *memDB }

func (m MockBookingStore) InTx(_ context.Context, fn func(repository.BookingTx) error) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	tx := &memTx{db: m.db, events: map[uint64]model.Event{}, bookings: map[uint64]model.Booking{}}
	for k, v := range m.db.events {
		tx.events[k] = v
	}
	for k, v := range m.db.bookings {
		tx.bookings[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.db.events = tx.events
	m.db.bookings = tx.bookings
	return nil
}

func (m MockBookingStore) ListByUser(_ context.Context, userID uint64) ([]model.UserBooking, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []model.UserBooking{}
	for _, b := range m.sorted() {
		e, ok := m.db.events[b.EventID]
		if b.UserID != userID || !ok {
			continue
		}
		out = append(out, model.UserBooking{
			ID: b.ID, UserID: b.UserID, Seats: b.Seats, TotalPrice: b.TotalPrice, Status: b.Status,
			Event: model.EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, Location: e.Location, ImageURL: e.ImageURL},
		})
	}
	return out, nil
}

func (m MockBookingStore) ListAll(_ context.Context) ([]model.AdminBooking, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []model.AdminBooking{}
	for _, b := range m.sorted() {
		u := m.db.users[b.UserID]
		ab := model.AdminBooking{
			ID: b.ID, Seats: b.Seats, TotalPrice: b.TotalPrice, Status: b.Status,
			User: model.BookingUserRef{ID: u.ID, Name: u.Name, Email: u.Email},
		}
		if e, ok := m.db.events[b.EventID]; ok {
			ab.Event = &model.BookingEventRef{ID: e.ID, Title: e.Title, Date: e.Date}
		}
		out = append(out, ab)
	}
	return out, nil
}

func (m MockBookingStore) sorted() []model.Booking {
	out := make([]model.Booking, 0, len(m.db.bookings))
	for _, b := range m.db.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTx struct {
	db       *memDB
	events   map[uint64]model.Event
	bookings map[uint64]model.Booking
}

func (t *memTx) LockEvent(_ context.Context, id uint64) (model.Event, error) {
	e, ok := t.events[id]
	if !ok {
		return model.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (t *memTx) LockBooking(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := t.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return b, nil
}

func (t *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
	b.ID = t.db.id()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	t.bookings[b.ID] = *b
	return nil
}

func (t *memTx) SetBookingStatus(_ context.Context, id uint64, from, to model.BookingStatus) error {
	b, ok := t.bookings[id]
	if !ok || b.Status != from {
		return repository.ErrStatusChanged
	}
	b.Status = to
	t.bookings[id] = b
	return nil
}

func (t *memTx) AdjustSeats(_ context.Context, eventID uint64, delta int) error {
	e, ok := t.events[eventID]
	if !ok {
		if delta < 0 {
			return repository.ErrInsufficientSeats
		}
		return repository.ErrEventNotFound
	}
	if e.AvailableSeats+delta < 0 {
		return repository.ErrInsufficientSeats
	}
	e.AvailableSeats += delta
	t.events[eventID] = e
	return nil
}

// MockCache counts invalidations.
type MockCache struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *MockCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *MockCache) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// MockPublisher records published messages.  When block is set each
// publish waits for it to be closed first.
type MockPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
	block  chan struct{}
}

func (p *MockPublisher) PublishBookingEvent(_ context.Context, ev queue.BookingEvent) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *MockPublisher) Events() []queue.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.BookingEvent(nil), p.events...)
}

var errBrokerDown = errors.New("broker down")

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/eventella/internal/model"
)

// EventRepo provides CRUD operations for catalog events.  Seat inventory
// changes made by bookings go through BookingRepo.InTx instead.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, title, category, location, date, price, available_seats,
	image_url, description, artist, created_at, updated_at`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (model.Event, error) {
	var e model.Event
	var category string
	var artist sql.NullString
	err := s.Scan(&e.ID, &e.Title, &category, &e.Location, &e.Date, &e.Price,
		&e.AvailableSeats, &e.ImageURL, &e.Description, &artist, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Event{}, err
	}
	e.Category = model.Category(category)
	e.Artist = artist.String
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new event and populates its id and timestamps.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events
		(title, category, location, date, price, available_seats, image_url, description, artist)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.Title, string(e.Category), e.Location, e.Date.UTC(), e.Price,
		e.AvailableSeats, e.ImageURL, e.Description, nullString(e.Artist))
	if err != nil {
		return rangeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*e = created
	return nil
}

// GetByID returns ErrEventNotFound when no event has the given id.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	return e, err
}

// Update loads the event under a row lock, lets apply modify it and writes
// every mutable column back in the same transaction, so an edit never
// overwrites a concurrent booking's seat change.  When apply returns an
// error nothing is written and that error is returned.
func (r *EventRepo) Update(ctx context.Context, id uint64, apply func(*model.Event) error) (model.Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Event{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	e, err := scanEvent(tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	if err := apply(&e); err != nil {
		return model.Event{}, err
	}

	const q = `UPDATE events SET title = ?, category = ?, location = ?, date = ?, price = ?,
		available_seats = ?, image_url = ?, description = ?, artist = ?
		WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q,
		e.Title, string(e.Category), e.Location, e.Date.UTC(), e.Price,
		e.AvailableSeats, e.ImageURL, e.Description, nullString(e.Artist), id); err != nil {
		return model.Event{}, rangeErr(err)
	}
	updated, err := scanEvent(tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", id))
	if err != nil {
		return model.Event{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Event{}, err
	}
	committed = true
	return updated, nil
}

// Delete removes an event.  Bookings referencing it are left in place.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

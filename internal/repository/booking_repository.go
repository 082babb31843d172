package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/eventella/internal/model"
)

// BookingRepo persists bookings and owns the transactions that move seat
// inventory between events and bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingTx is the set of row-locking operations available inside
// BookingRepo.InTx.  Every method runs on the same *sql.Tx.
type BookingTx interface {
	// LockEvent reads an event and holds its row lock until the
	// transaction ends.
	LockEvent(ctx context.Context, id uint64) (model.Event, error)
	// LockBooking reads a booking and holds its row lock.
	LockBooking(ctx context.Context, id uint64) (model.Booking, error)
	// InsertBooking stores b and fills in its id and timestamps.
	InsertBooking(ctx context.Context, b *model.Booking) error
	// SetBookingStatus moves a booking from one status to another and
	// returns ErrStatusChanged when it is not in the from state.
	SetBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error
	// AdjustSeats adds delta to an event's inventory.  A negative delta
	// that would take the count below zero fails with ErrInsufficientSeats.
	AdjustSeats(ctx context.Context, eventID uint64, delta int) error
}

// InTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (r *BookingRepo) InTx(ctx context.Context, fn func(BookingTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type bookingTx struct {
	tx *sql.Tx
}

const bookingColumns = "id, user_id, event_id, seats, total_price, status, created_at, updated_at"

func scanBooking(s rowScanner) (model.Booking, error) {
	var b model.Booking
	var status string
	if err := s.Scan(&b.ID, &b.UserID, &b.EventID, &b.Seats, &b.TotalPrice, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingStatus(status)
	return b, nil
}

func (t *bookingTx) LockEvent(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(t.tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	return e, err
}

func (t *bookingTx) LockBooking(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(t.tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	if b.Status == "" {
		b.Status = model.BookingConfirmed
	}
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, event_id, seats, total_price, status) VALUES (?, ?, ?, ?, ?)",
		b.UserID, b.EventID, b.Seats, b.TotalPrice, string(b.Status))
	if err != nil {
		return rangeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	// Query back the full row to populate timestamps
	created, err := scanBooking(t.tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err != nil {
		return err
	}
	*b = created
	return nil
}

func (t *bookingTx) SetBookingStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ? AND status = ?",
		string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (t *bookingTx) AdjustSeats(ctx context.Context, eventID uint64, delta int) error {
	var (
		res sql.Result
		err error
	)
	if delta < 0 {
		need := -delta
		res, err = t.tx.ExecContext(ctx,
			"UPDATE events SET available_seats = available_seats - ? WHERE id = ? AND available_seats >= ?",
			need, eventID, need)
	} else {
		res, err = t.tx.ExecContext(ctx,
			"UPDATE events SET available_seats = available_seats + ? WHERE id = ?",
			delta, eventID)
	}
	if err != nil {
		return fmt.Errorf("adjust seats: %w", rangeErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if delta < 0 {
			return ErrInsufficientSeats
		}
		return ErrEventNotFound
	}
	return nil
}

// ListByUser returns the user's bookings joined with the event summary.
// Bookings whose event has been deleted are omitted.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.UserBooking, error) {
	const q = `SELECT b.id, b.user_id, b.seats, b.total_price, b.status, b.created_at, b.updated_at,
	                  e.id, e.title, e.date, e.location, e.image_url
	           FROM bookings b
	           JOIN events e ON e.id = b.event_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at ASC, b.id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.UserBooking, 0)
	for rows.Next() {
		var ub model.UserBooking
		var status string
		if err := rows.Scan(&ub.ID, &ub.UserID, &ub.Seats, &ub.TotalPrice, &status, &ub.CreatedAt, &ub.UpdatedAt,
			&ub.Event.ID, &ub.Event.Title, &ub.Event.Date, &ub.Event.Location, &ub.Event.ImageURL); err != nil {
			return nil, err
		}
		ub.Status = model.BookingStatus(status)
		out = append(out, ub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every booking with user and event projections.  The
// event is nil for bookings whose event has been deleted.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.AdminBooking, error) {
	const q = `SELECT b.id, b.seats, b.total_price, b.status, b.created_at, b.updated_at,
	                  u.id, u.name, u.email,
	                  e.id, e.title, e.date
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           LEFT JOIN events e ON e.id = b.event_id
	           ORDER BY b.created_at ASC, b.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AdminBooking, 0)
	for rows.Next() {
		var ab model.AdminBooking
		var status string
		var eventID sql.NullInt64
		var eventTitle sql.NullString
		var eventDate sql.NullTime
		if err := rows.Scan(&ab.ID, &ab.Seats, &ab.TotalPrice, &status, &ab.CreatedAt, &ab.UpdatedAt,
			&ab.User.ID, &ab.User.Name, &ab.User.Email,
			&eventID, &eventTitle, &eventDate); err != nil {
			return nil, err
		}
		ab.Status = model.BookingStatus(status)
		if eventID.Valid {
			ab.Event = &model.BookingEventRef{
				ID:    uint64(eventID.Int64),
				Title: eventTitle.String,
				Date:  eventDate.Time,
			}
		}
		out = append(out, ab)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

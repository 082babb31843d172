package model

import "time"

// BookingStatus is the lifecycle state of a booking.  The only transition
// is Confirmed -> Cancelled; Cancelled is terminal.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking records a user's reservation of seats for an event.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the booking.
//  EventID    – reserved event; may point at a deleted event.
//  Seats      – number of seats, positive.
//  TotalPrice – event price times seats, frozen at creation.
//  Status     – Confirmed or Cancelled.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Booking struct {
	ID         uint64        `json:"id"`         // bookings.id
	UserID     uint64        `json:"user"`       // bookings.user_id
	EventID    uint64        `json:"event"`      // bookings.event_id
	Seats      int           `json:"seats"`      // bookings.seats
	TotalPrice float64       `json:"totalPrice"` // bookings.total_price
	Status     BookingStatus `json:"status"`     // bookings.status
	CreatedAt  time.Time     `json:"createdAt"`  // bookings.created_at
	UpdatedAt  time.Time     `json:"updatedAt"`  // bookings.updated_at
}

// EventSummary is the slice of an event shown next to a user's own bookings.
type EventSummary struct {
	ID       uint64    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	ImageURL string    `json:"imageURL"`
}

// UserBooking is a booking joined with its (still existing) event.
type UserBooking struct {
	ID         uint64        `json:"id"`
	UserID     uint64        `json:"user"`
	Event      EventSummary  `json:"event"`
	Seats      int           `json:"seats"`
	TotalPrice float64       `json:"totalPrice"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// BookingUserRef is the minimal user projection in the admin listing.
type BookingUserRef struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingEventRef is the minimal event projection in the admin listing.
type BookingEventRef struct {
	ID    uint64    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// AdminBooking is a booking joined with user and event projections.  Event
// is nil when the referenced event was deleted.
type AdminBooking struct {
	ID         uint64           `json:"id"`
	User       BookingUserRef   `json:"user"`
	Event      *BookingEventRef `json:"event"`
	Seats      int              `json:"seats"`
	TotalPrice float64          `json:"totalPrice"`
	Status     BookingStatus    `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Package repository holds the MySQL-backed stores for users, events and
// bookings.  The sentinel errors below let the service layer tell expected
// outcomes (a missing row, a lost race on a booking) from real failures.
package repository

import "errors"

// ErrUserNotFound is returned when no user matches the lookup key.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering an email that is already
// taken.  It is derived from MySQL duplicate-key error 1062.
var ErrEmailExists = errors.New("email already exists")

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrInsufficientSeats is returned when a conditional seat decrement
// matches no row because the event no longer has enough inventory.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrStatusChanged is returned when a booking status transition finds the
// booking in a different state than expected.
var ErrStatusChanged = errors.New("booking status changed")

// ErrOutOfRange is returned when a value does not fit its column (MySQL
// error 1264 in strict mode).  The service layer validates ranges first;
// this catches whatever slips through.
var ErrOutOfRange = errors.New("value out of range")

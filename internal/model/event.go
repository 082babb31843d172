package model

import "time"

// Category is the closed set of event kinds offered by the catalog.
type Category string

const (
	CategoryMovie    Category = "Movie"
	CategoryConcert  Category = "Concert"
	CategoryPlay     Category = "Play"
	CategorySports   Category = "Sports"
	CategoryWorkshop Category = "Workshop"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryMovie, CategoryConcert, CategoryPlay, CategorySports, CategoryWorkshop}

// Valid reports whether c is one of the declared categories.  The match is
// exact and case-sensitive.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Event is a catalog entry that can be booked.  AvailableSeats is the
// inventory counter; it is never negative and is only changed through the
// booking transaction or an admin update.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – display title.
//  Category       – one of Categories.
//  Location       – venue, free text.
//  Date           – when the event takes place (UTC).
//  Price          – price per seat, non-negative.
//  AvailableSeats – remaining inventory, non-negative.
//  ImageURL       – poster image.
//  Description    – long description.
//  Artist         – optional performer name; empty when unset.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Event struct {
	ID             uint64    `json:"id"`               // events.id
	Title          string    `json:"title"`            // events.title
	Category       Category  `json:"category"`         // events.category
	Location       string    `json:"location"`         // events.location
	Date           time.Time `json:"date"`             // events.date
	Price          float64   `json:"price"`            // events.price
	AvailableSeats int       `json:"availableSeats"`   // events.available_seats
	ImageURL       string    `json:"imageURL"`         // events.image_url
	Description    string    `json:"description"`      // events.description
	Artist         string    `json:"artist,omitempty"` // events.artist (nullable)
	CreatedAt      time.Time `json:"createdAt"`        // events.created_at
	UpdatedAt      time.Time `json:"updatedAt"`        // events.updated_at
}

package service

import (
	"context"

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/queue"
	"github.com/iliyamo/eventella/internal/repository"
)

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SetRole(ctx context.Context, id uint64, role model.Role) error
}

// EventStore is implemented by repository.EventRepo.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	Update(ctx context.Context, id uint64, apply func(*model.Event) error) (model.Event, error)
	Delete(ctx context.Context, id uint64) error
	Search(ctx context.Context, q repository.EventQuery) ([]model.Event, error)
}

// BookingStore is implemented by repository.BookingRepo.
type BookingStore interface {
	InTx(ctx context.Context, fn func(repository.BookingTx) error) error
	ListByUser(ctx context.Context, userID uint64) ([]model.UserBooking, error)
	ListAll(ctx context.Context) ([]model.AdminBooking, error)
}

// CatalogCache drops cached catalog responses after a write.
type CatalogCache interface {
	Invalidate(ctx context.Context) error
}

// EventPublisher delivers booking lifecycle messages to the broker.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

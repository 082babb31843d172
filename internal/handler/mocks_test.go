package handler

import (
	"context"

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/service"
)

// MockAuthService implements AuthService through function fields.
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, in service.RegisterInput) (service.AuthResult, error)
	LoginFunc    func(ctx context.Context, in service.LoginInput) (service.AuthResult, error)
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error) {
	return m.RegisterFunc(ctx, in)
}

func (m *MockAuthService) Login(ctx context.Context, in service.LoginInput) (service.AuthResult, error) {
	return m.LoginFunc(ctx, in)
}

// MockEventService implements EventService through function fields.
type MockEventService struct {
	QueryFunc   func(ctx context.Context, in service.QueryInput) ([]model.Event, error)
	GetByIDFunc func(ctx context.Context, id uint64) (model.Event, error)
	CreateFunc  func(ctx context.Context, in service.EventInput) (model.Event, error)
	UpdateFunc  func(ctx context.Context, id uint64, in service.EventInput) (model.Event, error)
	DeleteFunc  func(ctx context.Context, id uint64) error
}

func (m *MockEventService) Query(ctx context.Context, in service.QueryInput) ([]model.Event, error) {
	return m.QueryFunc(ctx, in)
}

func (m *MockEventService) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockEventService) Create(ctx context.Context, in service.EventInput) (model.Event, error) {
	return m.CreateFunc(ctx, in)
}

func (m *MockEventService) Update(ctx context.Context, id uint64, in service.EventInput) (model.Event, error) {
	return m.UpdateFunc(ctx, id, in)
}

func (m *MockEventService) Delete(ctx context.Context, id uint64) error {
	return m.DeleteFunc(ctx, id)
}

// MockBookingService implements BookingService through function fields.
type MockBookingService struct {
	CreateFunc   func(ctx context.Context, userID uint64, in service.CreateBookingInput) (model.Booking, error)
	CancelFunc   func(ctx context.Context, userID, bookingID uint64) (model.Booking, error)
	ListMineFunc func(ctx context.Context, userID uint64) ([]model.UserBooking, error)
	ListAllFunc  func(ctx context.Context) ([]model.AdminBooking, error)
}

func (m *MockBookingService) Create(ctx context.Context, userID uint64, in service.CreateBookingInput) (model.Booking, error) {
	return m.CreateFunc(ctx, userID, in)
}

func (m *MockBookingService) Cancel(ctx context.Context, userID, bookingID uint64) (model.Booking, error) {
	return m.CancelFunc(ctx, userID, bookingID)
}

func (m *MockBookingService) ListMine(ctx context.Context, userID uint64) ([]model.UserBooking, error) {
	return m.ListMineFunc(ctx, userID)
}

func (m *MockBookingService) ListAll(ctx context.Context) ([]model.AdminBooking, error) {
	return m.ListAllFunc(ctx)
}

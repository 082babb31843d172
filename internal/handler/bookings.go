package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventella/internal/middleware"
	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/service"
)

// BookingService is implemented by service.BookingService.
type BookingService interface {
	Create(ctx context.Context, userID uint64, in service.CreateBookingInput) (model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID uint64) (model.Booking, error)
	ListMine(ctx context.Context, userID uint64) ([]model.UserBooking, error)
	ListAll(ctx context.Context) ([]model.AdminBooking, error)
}

// BookingHandler serves /api/bookings.  Every route runs behind JWTAuth.
type BookingHandler struct {
	Bookings BookingService
}

func NewBookingHandler(bookings BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

// Create handles POST /api/bookings with body {eventId, seats}.
func (h *BookingHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
	}
	var in service.CreateBookingInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Create(ctx, u.ID, in)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Mine handles GET /api/bookings/mybookings.
func (h *BookingHandler) Mine(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListMine(ctx, u.ID)
	if err != nil {
		return respond(c, err)
	}
	if list == nil {
		list = []model.UserBooking{}
	}
	return c.JSON(http.StatusOK, list)
}

// All handles GET /api/bookings (admin).
func (h *BookingHandler) All(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return respond(c, err)
	}
	if list == nil {
		list = []model.AdminBooking{}
	}
	return c.JSON(http.StatusOK, list)
}

// Cancel handles PUT /api/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.Cancel(ctx, u.ID, id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

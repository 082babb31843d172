package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventella/internal/handler"
	"github.com/iliyamo/eventella/internal/middleware"
	"github.com/iliyamo/eventella/internal/model"
)

// RegisterBookings registers /api/bookings.  Every route requires a token;
// listing all bookings additionally requires the admin role.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, authn echo.MiddlewareFunc) {
	g := e.Group("/api/bookings", authn)
	g.POST("", h.Create)
	g.GET("/mybookings", h.Mine)
	g.GET("", h.All, middleware.RequireRole(model.RoleAdmin))
	g.PUT("/:id/cancel", h.Cancel)
}

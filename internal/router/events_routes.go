package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventella/internal/handler"
	"github.com/iliyamo/eventella/internal/middleware"
	"github.com/iliyamo/eventella/internal/model"
)

// RegisterEvents registers the catalog.  Reads are public and go through
// the response cache; writes require an authenticated admin.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, authn, cache echo.MiddlewareFunc) {
	g := e.Group("/api/events")
	g.GET("", h.List, cache)
	g.GET("/:id", h.Get, cache)

	admin := middleware.RequireRole(model.RoleAdmin)
	g.POST("", h.Create, authn, admin)
	g.PUT("/:id", h.Update, authn, admin)
	g.DELETE("/:id", h.Delete, authn, admin)
}

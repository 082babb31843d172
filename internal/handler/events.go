package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/service"
)

// EventService is implemented by service.EventService.
type EventService interface {
	Query(ctx context.Context, in service.QueryInput) ([]model.Event, error)
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	Create(ctx context.Context, in service.EventInput) (model.Event, error)
	Update(ctx context.Context, id uint64, in service.EventInput) (model.Event, error)
	Delete(ctx context.Context, id uint64) error
}

// EventHandler serves the public catalog and the admin event endpoints.
type EventHandler struct {
	Events EventService
}

func NewEventHandler(events EventService) *EventHandler {
	return &EventHandler{Events: events}
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /api/events?category=&location=&maxPrice=&q=.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.Query(ctx, service.QueryInput{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
		MaxPrice: c.QueryParam("maxPrice"),
		Q:        c.QueryParam("q"),
	})
	if err != nil {
		return respond(c, err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return c.JSON(http.StatusOK, events)
}

// Get handles GET /api/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Create handles POST /api/events (admin).
func (h *EventHandler) Create(c echo.Context) error {
	var in service.EventInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.Create(ctx, in)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

// Update handles PUT /api/events/:id (admin).
func (h *EventHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	var in service.EventInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.Update(ctx, id, in)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Delete handles DELETE /api/events/:id (admin).
func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Event removed"})
}

package handler

import (
	"context"  // provides context with cancellation for DB calls
	"net/http" // HTTP status codes and primitives
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/eventella/internal/middleware"
	"github.com/iliyamo/eventella/internal/service"
)

// AuthService is implemented by service.AuthService.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (service.AuthResult, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// Register: create user and return a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Register(ctx, req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Login: verify credentials and return a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Profile returns the user loaded by JWTAuth.
func (h *AuthHandler) Profile(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
	}
	return c.JSON(http.StatusOK, u)
}

package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"  // request-scoped timeout for the user lookup
	"errors"   // matching service errors
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming
	"time"     // timeout duration

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/eventella/internal/model"
	"github.com/iliyamo/eventella/internal/service"
)

// Authenticator resolves a raw bearer token to the current user.  It is
// implemented by service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer token, loads
// the user it names and stores that user in the context under UserKey.
// Requests without a token, with an invalid or expired token, or whose user
// no longer exists are rejected with 401.  Storage failures fall through to
// the HTTP error handler.
func JWTAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := auth.Authenticate(ctx, raw)
			if errors.Is(err, service.ErrUnauthorized) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": service.Message(err)})
			}
			if err != nil {
				return err
			}

			// Handlers read the user back through CurrentUser.
			c.Set(UserKey, u)
			return next(c)
		}
	}
}

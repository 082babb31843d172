package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes
	"strings"

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/eventella/internal/model"
)

// RequireRole returns a middleware that lets the request through only when
// the authenticated user has one of the given roles.  The role is read from
// the user record loaded by JWTAuth, never from the token claim alone, so a
// demoted user loses access immediately.  Without a loaded user the request
// is rejected with 401; with the wrong role it is rejected with 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = true
		names = append(names, string(r))
	}
	msg := "Not authorized as " + strings.Join(names, " or ")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
			}
			if !allowed[u.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"message": msg})
			}
			return next(c)
		}
	}
}

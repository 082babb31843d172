package middleware

// identity.go holds the context accessors shared by the middleware and the
// handlers.  JWTAuth stores the freshly loaded user under UserKey; every
// other reader goes through CurrentUser.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventella/internal/model"
)

// UserKey is the echo context key holding the authenticated model.User.
const UserKey = "user"

// CurrentUser returns the user loaded by JWTAuth, if any.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(UserKey).(model.User)
	return u, ok
}

// userID returns the authenticated user's id as a string, or "anon" for
// unauthenticated requests.  It is used in rate limit keys and logs.
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return strconv.FormatUint(u.ID, 10)
	}
	return "anon"
}

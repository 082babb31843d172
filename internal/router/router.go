package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/eventella/internal/handler" // handlers that implement each endpoint
)

// RegisterRoutes registers routes that do not require authentication and
// do not belong to a resource: the welcome banner and the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Welcome)
	// load balancers and monitoring probe this one
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes under /api/auth.
// limiter guards the whole group; authn is the JWTAuth middleware and
// protects only the profile endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/profile", a.Profile, authn)
}

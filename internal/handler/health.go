package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Welcome answers GET / so a browser pointed at the API sees it is alive.
func Welcome(c echo.Context) error {
	return c.String(http.StatusOK, "Eventella API is running...")
}

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems.  It returns a plain text "ok" with status 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

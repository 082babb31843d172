package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/eventella/internal/service"
)

// statusFor maps a service error to its HTTP status, or 0 for errors the
// service does not classify.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInsufficientInventory):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return 0
}

// respond writes a classified service error as {"message": ...}.  Anything
// else is returned unchanged for the HTTP error handler.
func respond(c echo.Context, err error) error {
	if status := statusFor(err); status != 0 {
		return c.JSON(status, echo.Map{"message": service.Message(err)})
	}
	return err
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
}

// NewHTTPErrorHandler renders every error that reaches echo.  Unknown
// routes get 404 {"message":"Route not found"}; unexpected errors get 500
// {"message","error"} where detail is withheld in production.
func NewHTTPErrorHandler(production bool, log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status := he.Code
			msg := http.StatusText(status)
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			}
			if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
				status, msg = http.StatusNotFound, "Route not found"
			}
			if status >= http.StatusInternalServerError {
				log.Error("request failed", zap.Error(err), zap.String("path", c.Request().URL.Path))
			}
			writeErr(c, status, echo.Map{"message": msg})
			return
		}

		log.Error("unhandled error", zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path))
		body := echo.Map{"message": "Internal Server Error", "error": echo.Map{}}
		if !production {
			body = echo.Map{"message": err.Error(), "error": err.Error()}
		}
		writeErr(c, http.StatusInternalServerError, body)
	}
}

func writeErr(c echo.Context, status int, body echo.Map) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusServiceUnavailable {
			c.Response().Header().Set("Retry-After", "1")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// kindStatus maps domain error kinds to HTTP status codes. Kinds not listed
// are unexpected and answered with 500.
var kindStatus = map[domain.ErrorKind]int{
	domain.KindMissingField:          http.StatusBadRequest,
	domain.KindInvalidEmailFormat:    http.StatusUnprocessableEntity,
	domain.KindPasswordTooShort:      http.StatusUnprocessableEntity,
	domain.KindInvalid:               http.StatusUnprocessableEntity,
	domain.KindInvalidCredentials:    http.StatusUnauthorized,
	domain.KindNotFound:              http.StatusNotFound,
	domain.KindConflict:              http.StatusConflict,
	domain.KindNotReady:              http.StatusServiceUnavailable,
	domain.KindRemoteAuthUnavailable: http.StatusServiceUnavailable,
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// The outermost domain error decides: a chain failure wraps its cause
	// under InvalidCredentials.
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		if code, ok := kindStatus[dErr.Kind]; ok {
			if code == http.StatusServiceUnavailable {
				log.Warn().Err(err).Str("path", c.Path()).Msg("dependency unavailable")
			}
			return code, dErr.Message
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

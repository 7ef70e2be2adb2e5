package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartmed/doctor-portal/internal/api/middleware"
	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// ctxSession extracts the session injected by the Guard middleware. Its
// absence means the route was mounted without the guard.
func ctxSession(c echo.Context) (domain.Session, error) {
	s, ok := middleware.Session(c)
	if !ok || s.Email == "" {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return s, nil
}

// ctxContextID returns the browser context id set by BrowserContext.
func ctxContextID(c echo.Context) (string, error) {
	id := middleware.ContextID(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "missing browser context")
	}
	return id, nil
}

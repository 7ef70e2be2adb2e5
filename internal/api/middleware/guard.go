package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartmed/doctor-portal/internal/api/metrics"
	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

const (
	// SessionKey is the echo context key holding the signed-in domain.Session.
	SessionKey = "session"
	// StoreKey is the echo context key holding the context's ports.SessionStore.
	StoreKey = "session_store"

	retryAfterSeconds = 1
)

type loadingResponse struct {
	Status string `json:"status"`
}

type unauthenticatedResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Guard admits a request only when its browser context is authenticated.
// The state is read on every request, so a sign-out revokes access at once.
//
//   - still LOADING after wait: 503 with Retry-After and a loading placeholder
//   - ANONYMOUS: redirect to the login page (401 with redirect for JSON clients)
//   - AUTHENTICATED: the session is put on the context and next runs
func Guard(registry ports.SessionRegistry, wait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, release, err := resolveStore(c, registry, wait)
			if err != nil {
				return err
			}
			defer release()

			snap := store.Snapshot()
			switch snap.State {
			case domain.StateAuthenticated:
				metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
				c.Set(SessionKey, *snap.Session)
				return next(c)
			case domain.StateAnonymous:
				metrics.GuardDecisionsTotal.WithLabelValues("redirect").Inc()
				if WantsJSON(c) {
					return c.JSON(http.StatusUnauthorized, unauthenticatedResponse{
						Error:    "authentication required",
						Redirect: domain.LoginPath,
					})
				}
				return c.Redirect(http.StatusFound, domain.LoginPath)
			default:
				metrics.GuardDecisionsTotal.WithLabelValues("loading").Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
				return c.JSON(http.StatusServiceUnavailable, loadingResponse{Status: "loading"})
			}
		}
	}
}

// GuestOnly sends an already authenticated browser context to the dashboard.
// Anonymous and still-loading contexts pass through.
func GuestOnly(registry ports.SessionRegistry, wait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, release, err := resolveStore(c, registry, wait)
			if err != nil {
				return err
			}
			defer release()
			if store.Snapshot().State == domain.StateAuthenticated {
				return Navigate(c, http.StatusOK, nil, domain.DashboardPath)
			}
			return next(c)
		}
	}
}

// resolveStore acquires the context's session store, waits up to wait for it
// to resolve and stores it on the echo context. The store stays pinned until
// release is called.
func resolveStore(c echo.Context, registry ports.SessionRegistry, wait time.Duration) (ports.SessionStore, func(), error) {
	id := ContextID(c)
	if id == "" {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "missing browser context")
	}

	store, release := registry.Acquire(c.Request().Context(), id)

	ctx, cancel := context.WithTimeout(c.Request().Context(), wait)
	defer cancel()
	_ = store.Wait(ctx)

	c.Set(StoreKey, store)
	return store, release, nil
}

// Store returns the session store resolved by Guard or GuestOnly.
func Store(c echo.Context) (ports.SessionStore, bool) {
	s, ok := c.Get(StoreKey).(ports.SessionStore)
	return s, ok
}

// Session returns the signed-in session set by Guard.
func Session(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(SessionKey).(domain.Session)
	return s, ok
}

// WantsJSON reports whether the client asked for JSON rather than a page.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.EqualFold(req.Header.Get(echo.HeaderXRequestedWith), "XMLHttpRequest")
}

// Navigate answers a request whose outcome is a page change. Browsers get a
// redirect to location (303 after a POST, 302 otherwise); JSON clients get
// status with body and a "redirect" field.
func Navigate(c echo.Context, status int, body map[string]interface{}, location string) error {
	if !WantsJSON(c) {
		code := http.StatusFound
		if c.Request().Method != http.MethodGet && c.Request().Method != http.MethodHead {
			code = http.StatusSeeOther
		}
		return c.Redirect(code, location)
	}

	out := make(map[string]interface{}, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	out["redirect"] = location
	return c.JSON(status, out)
}

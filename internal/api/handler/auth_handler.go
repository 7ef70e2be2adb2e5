package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartmed/doctor-portal/internal/api/metrics"
	"github.com/smartmed/doctor-portal/internal/api/middleware"
	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

const portalTitle = "SmartMed Doctor Portal"

// SignInAuditor records rejected sign-in attempts.
type SignInAuditor interface {
	SignInFailed(contextID, email string, err error)
}

// AuthHandler serves the login, logout, session and sign-up endpoints.
type AuthHandler struct {
	registry  ports.SessionRegistry
	directory ports.DirectoryService
	auditor   SignInAuditor
	accounts  []domain.CredentialRecord
	wait      time.Duration
}

// AuthHandlerConfig carries the optional collaborators of AuthHandler. A nil
// Directory disables sign-up. DemoAccounts are the allow-list accounts, listed
// on the login page and in invalid-credential messages whenever they are set.
type AuthHandlerConfig struct {
	Directory    ports.DirectoryService
	Auditor      SignInAuditor
	DemoAccounts []domain.CredentialRecord
	Wait         time.Duration
}

func NewAuthHandler(registry ports.SessionRegistry, cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		registry:  registry,
		directory: cfg.Directory,
		auditor:   cfg.Auditor,
		accounts:  cfg.DemoAccounts,
		wait:      cfg.Wait,
	}
}

func (h *AuthHandler) demoMode() bool { return h.directory == nil }

// LoginPage returns the login page model.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loginPageResponse
// @Success      302  "already signed in, redirected to /dashboard"
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	resp := loginPageResponse{Title: portalTitle}
	for _, r := range h.accounts {
		resp.DemoAccounts = append(resp.DemoAccounts, demoAccount{Email: r.Email, Password: r.Password, Name: r.Name})
	}
	return c.JSON(http.StatusOK, resp)
}

// Login signs the browser context in and navigates to the dashboard.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  map[string]interface{}
// @Success      303   "redirect to /dashboard"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	store, release := h.registry.Acquire(c.Request().Context(), contextID)
	defer release()
	t, err := store.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.loginFailed(contextID, req.Email, err)
	}

	metrics.SignInsTotal.WithLabelValues("success", "").Inc()
	return middleware.Navigate(c, http.StatusOK, map[string]interface{}{"user": t.Session}, t.Redirect)
}

func (h *AuthHandler) loginFailed(contextID, email string, err error) error {
	reason := "unknown"
	if kind, ok := domain.KindOf(err); ok {
		reason = string(kind)
	}
	metrics.SignInsTotal.WithLabelValues("failure", reason).Inc()
	if h.auditor != nil {
		h.auditor.SignInFailed(contextID, email, err)
	}

	if len(h.accounts) > 0 && errors.Is(err, domain.ErrInvalidCredentials) {
		return domain.WrapError(domain.KindInvalidCredentials, domain.InvalidCredentialsMessage(h.accounts), err)
	}
	return err
}

// Logout signs the browser context out. It is safe to repeat.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Success      303  "redirect to /login"
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	store, release := h.registry.Acquire(c.Request().Context(), contextID)
	defer release()
	t, err := store.SignOut(c.Request().Context())
	if err != nil {
		return err
	}

	metrics.SignOutsTotal.Inc()
	return middleware.Navigate(c, http.StatusOK, map[string]interface{}{"message": "signed out"}, t.Redirect)
}

// Session reports the state of the current browser context.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	contextID, err := ctxContextID(c)
	if err != nil {
		return err
	}

	store, release := h.registry.Acquire(c.Request().Context(), contextID)
	defer release()

	if h.wait > 0 {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.wait)
		defer cancel()
		_ = store.Wait(ctx)
	}

	snap := store.Snapshot()
	return c.JSON(http.StatusOK, sessionResponse{State: string(snap.State), User: snap.Session})
}

// SignupPage returns the sign-up form options.
//
// @Summary      Sign-up page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  signupPageResponse
// @Router       /signup [get]
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.JSON(http.StatusOK, signupPageResponse{
		Title:           portalTitle,
		Specializations: domain.Specializations,
		Available:       !h.demoMode(),
	})
}

// Signup registers a doctor in the directory and navigates to the login page.
//
// @Summary      Register a doctor
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        body  body      signupRequest  true  "Doctor registration details"
// @Success      201   {object}  map[string]interface{}
// @Success      303   "redirect to /login"
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	if h.demoMode() {
		return domain.ErrRemoteAuthUnavailable
	}

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	doctor, err := h.directory.Register(c.Request().Context(), ports.RegisterDoctorInput{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Phone:               req.Phone,
		Country:             req.Country,
		Specialization:      req.Specialization,
		LicenseNumber:       req.LicenseNumber,
		HospitalAffiliation: req.HospitalAffiliation,
		Password:            req.Password,
	})
	if err != nil {
		return err
	}

	return middleware.Navigate(c, http.StatusCreated, map[string]interface{}{"doctor": doctor}, domain.LoginPath)
}

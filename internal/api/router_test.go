package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/api/middleware"
	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/service"
	"github.com/smartmed/doctor-portal/internal/infrastructure/db/memory"
	"github.com/smartmed/doctor-portal/internal/infrastructure/storage"
)

func newTestRouter() *echo.Echo {
	log := zerolog.Nop()
	auth := service.NewDefaultAuthenticator(
		service.NewAllowListStrategy(domain.DefaultAllowList()),
		service.NewRemoteStrategy(nil, time.Second),
		log,
	)
	registry := service.NewSessionRegistry(storage.PerContext(memory.NewBlobStorage()), auth, log)

	data := memory.Seed(time.Now())
	portal := service.NewPortalService(
		memory.NewPatientRepository(data.Patients),
		memory.NewAlertRepository(data.Alerts),
		memory.NewAppointmentRepository(data.Appointments),
		log,
	)

	return NewRouter(RouterDeps{
		Log:           log,
		Registry:      registry,
		Portal:        portal,
		DemoAccounts:  domain.DefaultAllowList(),
		ContextSecret: []byte("test-secret"),
		ContextTTL:    time.Hour,
		GuardWait:     time.Second,
	})
}

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func (cl *client) do(method, path, body string) *httptest.ResponseRecorder {
	cl.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.ContextCookieName {
			cl.cookie = ck
		}
	}
	return rec
}

func TestRouter_SignInGuardSignOut(t *testing.T) {
	cl := &client{t: t, e: newTestRouter()}

	if rec := cl.do(http.MethodGet, "/dashboard", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous dashboard: expected 401, got %d", rec.Code)
	}
	if cl.cookie == nil {
		t.Fatalf("expected browser context cookie on first request")
	}

	rec := cl.do(http.MethodPost, "/login", `{"email":"dr.sarah@hospital.com","password":"doctor123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = cl.do(http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signed-in dashboard: expected 200, got %d", rec.Code)
	}
	var dash map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doctor, _ := dash["doctor"].(map[string]any); doctor["name"] != "Dr. Sarah Johnson" {
		t.Fatalf("unexpected doctor: %+v", dash["doctor"])
	}

	if rec := cl.do(http.MethodGet, "/login", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), domain.DashboardPath) {
		t.Fatalf("login page while signed in: expected navigation to dashboard, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := cl.do(http.MethodPost, "/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if rec := cl.do(http.MethodGet, "/dashboard", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard after logout: expected 401, got %d", rec.Code)
	}
}

func TestRouter_BadLoginUsesErrorEnvelope(t *testing.T) {
	cl := &client{t: t, e: newTestRouter()}

	rec := cl.do(http.MethodPost, "/login", `{"email":"nobody@example.com","password":"whatever"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !strings.HasPrefix(body["error"], "Invalid email or password. Try demo credentials:") {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestRouter_ContextsAreIsolated(t *testing.T) {
	e := newTestRouter()
	alice := &client{t: t, e: e}
	bob := &client{t: t, e: e}

	alice.do(http.MethodPost, "/login", `{"email":"dr.emily@medcenter.com","password":"healthcare789"}`)
	bob.do(http.MethodGet, "/session", "")

	if rec := bob.do(http.MethodGet, "/dashboard", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("another browser must stay anonymous, got %d", rec.Code)
	}
	if rec := alice.do(http.MethodGet, "/settings", ""); rec.Code != http.StatusOK {
		t.Fatalf("signed-in browser: expected 200, got %d", rec.Code)
	}
}

func TestRouter_HealthNeedsNoContext(t *testing.T) {
	e := newTestRouter()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("health probe must not start a browser context")
	}
}

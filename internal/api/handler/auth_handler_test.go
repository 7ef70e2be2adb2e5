package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartmed/doctor-portal/internal/api/middleware"
	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
	"github.com/smartmed/doctor-portal/internal/core/service"
	"github.com/smartmed/doctor-portal/internal/infrastructure/db/memory"
	"github.com/smartmed/doctor-portal/internal/infrastructure/storage"
)

type stubDirectory struct {
	registerFn func(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error)
}

func (s *stubDirectory) Register(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
	return s.registerFn(ctx, in)
}

func (s *stubDirectory) SignIn(context.Context, string, string) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrInvalidCredentials
}

func (s *stubDirectory) SignOut(context.Context, string) error { return nil }

func (s *stubDirectory) GetSession(context.Context, string) (*domain.Session, error) { return nil, nil }

type failedSignIn struct {
	contextID string
	email     string
	err       error
}

type stubAuditor struct {
	failed []failedSignIn
}

func (a *stubAuditor) SignInFailed(contextID, email string, err error) {
	a.failed = append(a.failed, failedSignIn{contextID: contextID, email: email, err: err})
}

func newTestRegistry() *service.SessionRegistry {
	auth := service.NewDefaultAuthenticator(
		service.NewAllowListStrategy(domain.DefaultAllowList()),
		service.NewRemoteStrategy(nil, time.Second),
		zerolog.Nop(),
	)
	return service.NewSessionRegistry(storage.PerContext(memory.NewBlobStorage()), auth, zerolog.Nop())
}

func newDemoHandler(reg ports.SessionRegistry, auditor SignInAuditor) *AuthHandler {
	return NewAuthHandler(reg, AuthHandlerConfig{
		Auditor:      auditor,
		DemoAccounts: domain.DefaultAllowList(),
		Wait:         time.Second,
	})
}

func newRequestContext(e *echo.Echo, method, target, body, contentType, accept string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextIDKey, "ctx-1")
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_LoginPage_ListsDemoAccounts(t *testing.T) {
	e := echo.New()
	handler := newDemoHandler(newTestRegistry(), nil)
	c, rec := newRequestContext(e, http.MethodGet, "/login", "", "", echo.MIMEApplicationJSON)

	if err := handler.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp loginPageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Title != portalTitle {
		t.Fatalf("unexpected title %q", resp.Title)
	}
	if len(resp.DemoAccounts) != 3 || resp.DemoAccounts[0].Email != "dr.sarah@hospital.com" {
		t.Fatalf("unexpected demo accounts: %+v", resp.DemoAccounts)
	}
}

func TestAuthHandler_Login_JSONSuccess(t *testing.T) {
	e := echo.New()
	reg := newTestRegistry()
	handler := newDemoHandler(reg, nil)

	c, rec := newRequestContext(e, http.MethodPost, "/login",
		`{"email":"DR.SARAH@hospital.com","password":"doctor123"}`, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody(t, rec)
	if resp["redirect"] != domain.DashboardPath {
		t.Fatalf("expected redirect to dashboard, got %v", resp["redirect"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "dr.sarah@hospital.com" || user["name"] != "Dr. Sarah Johnson" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}

	store, release := reg.Acquire(context.Background(), "ctx-1")
	defer release()
	snap := store.Snapshot()
	if snap.State != domain.StateAuthenticated {
		t.Fatalf("expected AUTHENTICATED, got %s", snap.State)
	}
}

func TestAuthHandler_Login_FormRedirects(t *testing.T) {
	e := echo.New()
	handler := newDemoHandler(newTestRegistry(), nil)

	form := url.Values{"email": {"dr.michael@clinic.com"}, "password": {"medical456"}}
	c, rec := newRequestContext(e, http.MethodPost, "/login", form.Encode(), echo.MIMEApplicationForm, "text/html")

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != domain.DashboardPath {
		t.Fatalf("expected Location %s, got %q", domain.DashboardPath, loc)
	}
}

func TestAuthHandler_Login_DemoInvalidCredentials(t *testing.T) {
	e := echo.New()
	reg := newTestRegistry()
	auditor := &stubAuditor{}
	handler := newDemoHandler(reg, auditor)

	c, _ := newRequestContext(e, http.MethodPost, "/login",
		`{"email":"dr.sarah@hospital.com","password":"wrong-password"}`, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	var dErr *domain.Error
	if !errors.As(err, &dErr) || !strings.Contains(dErr.Message, "dr.emily@medcenter.com / healthcare789") {
		t.Fatalf("expected demo accounts in message, got %v", err)
	}

	if len(auditor.failed) != 1 || auditor.failed[0].contextID != "ctx-1" || auditor.failed[0].email != "dr.sarah@hospital.com" {
		t.Fatalf("expected one audited failure, got %+v", auditor.failed)
	}
	store, release := reg.Acquire(context.Background(), "ctx-1")
	defer release()
	if store.Snapshot().State != domain.StateAnonymous {
		t.Fatalf("failed sign-in must leave the context anonymous")
	}
}

func TestAuthHandler_Login_InvalidCredentialsListsAccountsWithDirectory(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(newTestRegistry(), AuthHandlerConfig{
		Directory:    &stubDirectory{},
		DemoAccounts: domain.DefaultAllowList(),
		Wait:         time.Second,
	})

	c, _ := newRequestContext(e, http.MethodPost, "/login",
		`{"email":"dr.sarah@hospital.com","password":"wrong-password"}`, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)

	err := handler.Login(c)
	var dErr *domain.Error
	if !errors.As(err, &dErr) || dErr.Kind != domain.KindInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if !strings.Contains(dErr.Message, "dr.sarah@hospital.com / doctor123") {
		t.Fatalf("expected allow-list accounts in message, got %q", dErr.Message)
	}
}

func TestAuthHandler_Login_FormErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"missing password", `{"email":"dr.sarah@hospital.com"}`, domain.ErrMissingField},
		{"bad email", `{"email":"sarah","password":"doctor123"}`, domain.ErrInvalidEmailFormat},
		{"short password", `{"email":"dr.sarah@hospital.com","password":"abc"}`, domain.ErrPasswordTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			handler := newDemoHandler(newTestRegistry(), nil)
			c, _ := newRequestContext(e, http.MethodPost, "/login", tc.body, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)

			if err := handler.Login(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	handler := newDemoHandler(newTestRegistry(), nil)
	c, rec := newRequestContext(e, http.MethodPost, "/login", "not-json", echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)

	if err := handler.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := echo.New()
	reg := newTestRegistry()
	handler := newDemoHandler(reg, nil)

	store, release := reg.Acquire(context.Background(), "ctx-1")
	defer release()
	if _, err := store.SignIn(context.Background(), "dr.emily@medcenter.com", "healthcare789"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	for i := 0; i < 2; i++ {
		c, rec := newRequestContext(e, http.MethodPost, "/logout", "", "", "text/html")
		if err := handler.Logout(c); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
		if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != domain.LoginPath {
			t.Fatalf("logout %d: expected 303 to /login, got %d %q", i, rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
	}

	if store.Snapshot().State != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS after logout")
	}
}

func TestAuthHandler_Session(t *testing.T) {
	e := echo.New()
	handler := newDemoHandler(newTestRegistry(), nil)
	c, rec := newRequestContext(e, http.MethodGet, "/session", "", "", echo.MIMEApplicationJSON)

	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeBody(t, rec)
	if resp["state"] != string(domain.StateAnonymous) || resp["user"] != nil {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
}

func TestAuthHandler_Signup_UnavailableInDemoMode(t *testing.T) {
	e := echo.New()
	handler := newDemoHandler(newTestRegistry(), nil)
	c, _ := newRequestContext(e, http.MethodPost, "/signup", `{}`, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)

	if err := handler.Signup(c); !errors.Is(err, domain.ErrRemoteAuthUnavailable) {
		t.Fatalf("expected remote auth unavailable, got %v", err)
	}
}

const validSignup = `{
	"first_name": "Ana",
	"last_name": "Lopez",
	"email": "ana@clinic.com",
	"specialization": "cardiology",
	"password": "longenough",
	"confirm_password": "longenough",
	"agree_to_terms": true
}`

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	dir := &stubDirectory{
		registerFn: func(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
			if in.Email != "ana@clinic.com" || in.Password != "longenough" || in.Specialization != "cardiology" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Doctor{ID: "d1", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
		},
	}
	handler := NewAuthHandler(newTestRegistry(), AuthHandlerConfig{Directory: dir})

	c, rec := newRequestContext(e, http.MethodPost, "/signup", validSignup, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["redirect"] != domain.LoginPath {
		t.Fatalf("expected redirect to login, got %v", resp["redirect"])
	}
	if _, leaked := resp["doctor"].(map[string]any)["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	dir := &stubDirectory{
		registerFn: func(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(newTestRegistry(), AuthHandlerConfig{Directory: dir})

	body := strings.Replace(validSignup, `"confirm_password": "longenough"`, `"confirm_password": "different"`, 1)
	c, rec := newRequestContext(e, http.MethodPost, "/signup", body, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)

	if err := handler.Signup(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "confirm_password must match password") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Signup_Conflict(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	dir := &stubDirectory{
		registerFn: func(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Doctor, error) {
			return nil, domain.ErrDoctorExists
		},
	}
	handler := NewAuthHandler(newTestRegistry(), AuthHandlerConfig{Directory: dir})

	c, _ := newRequestContext(e, http.MethodPost, "/signup", validSignup, echo.MIMEApplicationJSON, echo.MIMEApplicationJSON)
	if err := handler.Signup(c); !errors.Is(err, domain.ErrDoctorExists) {
		t.Fatalf("expected doctor exists, got %v", err)
	}
}

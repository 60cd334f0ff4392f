package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/auth"
)

type mockSystem struct {
	registerFn     func(ctx context.Context, cmd auth.RegisterCommand) (*auth.User, error)
	loginFn        func(ctx context.Context, cmd auth.LoginCommand) (*auth.Session, error)
	findFn         func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	authenticateFn func(ctx context.Context, token string) (*auth.User, error)
}

func (m *mockSystem) Handler() *auth.Handler {
	return auth.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) Register(ctx context.Context, cmd auth.RegisterCommand) (*auth.User, error) {
	return m.registerFn(ctx, cmd)
}

func (m *mockSystem) Login(ctx context.Context, cmd auth.LoginCommand) (*auth.Session, error) {
	return m.loginFn(ctx, cmd)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Authenticate(ctx context.Context, token string) (*auth.User, error) {
	return m.authenticateFn(ctx, token)
}

func newTestHandler(sys *mockSystem) *auth.Handler {
	return auth.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupMux(h *auth.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleUser() auth.User {
	return auth.User{
		ID:        uuid.MustParse("9f1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d"),
		Email:     "yard@example.com",
		Name:      "Yard Master",
		CreatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestHandlerRegister(t *testing.T) {
	user := sampleUser()
	var captured auth.RegisterCommand

	sys := &mockSystem{
		registerFn: func(_ context.Context, cmd auth.RegisterCommand) (*auth.User, error) {
			captured = cmd
			return &user, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	body, _ := json.Marshal(auth.RegisterCommand{
		Email:    "yard@example.com",
		Name:     "Yard Master",
		Password: "signal-box-42",
	})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if captured.Email != "yard@example.com" {
		t.Errorf("captured email = %q, want %q", captured.Email, "yard@example.com")
	}
	if captured.Password != "signal-box-42" {
		t.Errorf("captured password = %q, want %q", captured.Password, "signal-box-42")
	}

	var got auth.User
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %v, want %v", got.ID, user.ID)
	}
	if got.Email != user.Email {
		t.Errorf("Email = %q, want %q", got.Email, user.Email)
	}
}

func TestHandlerRegisterInvalidJSON(t *testing.T) {
	sys := &mockSystem{}
	mux := setupMux(newTestHandler(sys))

	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerRegisterMissingFields(t *testing.T) {
	sys := &mockSystem{
		registerFn: func(context.Context, auth.RegisterCommand) (*auth.User, error) {
			return nil, auth.ErrInvalidRegistration
		},
	}
	mux := setupMux(newTestHandler(sys))

	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"email":"x@y.z"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerRegisterDuplicateEmail(t *testing.T) {
	sys := &mockSystem{
		registerFn: func(context.Context, auth.RegisterCommand) (*auth.User, error) {
			return nil, auth.ErrEmailTaken
		},
	}
	mux := setupMux(newTestHandler(sys))

	body := `{"email":"yard@example.com","name":"Yard","password":"pw-123456"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandlerLogin(t *testing.T) {
	user := sampleUser()
	session := auth.Session{
		Token:     "signed.jwt.token",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		User:      user,
	}

	sys := &mockSystem{
		loginFn: func(_ context.Context, cmd auth.LoginCommand) (*auth.Session, error) {
			if cmd.Email != user.Email {
				t.Errorf("login email = %q, want %q", cmd.Email, user.Email)
			}
			return &session, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	body := `{"email":"yard@example.com","password":"signal-box-42"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got auth.Session
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Token != session.Token {
		t.Errorf("Token = %q, want %q", got.Token, session.Token)
	}
	if got.User.ID != user.ID {
		t.Errorf("User.ID = %v, want %v", got.User.ID, user.ID)
	}

	cookie := findCookie(rec.Result().Cookies(), auth.CookieName)
	if cookie == nil {
		t.Fatal("auth_token cookie not set")
	}
	if cookie.Value != session.Token {
		t.Errorf("cookie value = %q, want %q", cookie.Value, session.Token)
	}
	if !cookie.HttpOnly {
		t.Error("cookie should be http-only")
	}
}

func TestHandlerLoginInvalidCredentials(t *testing.T) {
	sys := &mockSystem{
		loginFn: func(context.Context, auth.LoginCommand) (*auth.Session, error) {
			return nil, auth.ErrInvalidCredentials
		},
	}
	mux := setupMux(newTestHandler(sys))

	body := `{"email":"yard@example.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if cookie := findCookie(rec.Result().Cookies(), auth.CookieName); cookie != nil {
		t.Error("cookie should not be set on failed login")
	}
}

func TestHandlerMe(t *testing.T) {
	user := sampleUser()
	mux := setupMux(newTestHandler(&mockSystem{}))

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &user))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got auth.User
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %v, want %v", got.ID, user.ID)
	}
	if got.Name != user.Name {
		t.Errorf("Name = %q, want %q", got.Name, user.Name)
	}
}

func TestHandlerMeAnonymous(t *testing.T) {
	mux := setupMux(newTestHandler(&mockSystem{}))

	req := httptest.NewRequest("GET", "/auth/me", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandlerRoutes(t *testing.T) {
	group := newTestHandler(&mockSystem{}).Routes()

	if group.Prefix != "/auth" {
		t.Errorf("Prefix = %q, want %q", group.Prefix, "/auth")
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"POST", "/register"},
		{"POST", "/login"},
		{"GET", "/me"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("len(Routes) = %d, want %d", len(group.Routes), len(want))
	}

	for i, w := range want {
		if group.Routes[i].Method != w.method {
			t.Errorf("Routes[%d].Method = %q, want %q", i, group.Routes[i].Method, w.method)
		}
		if group.Routes[i].Pattern != w.pattern {
			t.Errorf("Routes[%d].Pattern = %q, want %q", i, group.Routes[i].Pattern, w.pattern)
		}
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

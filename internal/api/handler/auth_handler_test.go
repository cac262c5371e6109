package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

var testCookie = CookieOptions{Name: "token", Secure: true}

func TestAuthHandler_Register_Success(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, *ports.Session, error) {
			if in.Email != "alice@example.com" || in.Role != domain.RoleManager {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "user_1", Name: in.Name, Email: in.Email, Role: in.Role, PasswordHash: "hash"},
				&ports.Session{Token: "signed", ExpiresAt: expires}, nil
		},
	}

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1","role":"manager"}`, nil)
	if err := NewAuthHandler(stub, testCookie).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user in response: %v", body)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "token" || ck.Value != "signed" || !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteStrictMode {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, *ports.Session, error) {
			t.Fatal("service must not be called")
			return nil, nil, nil
		},
	}

	c, _ := newTestContext(http.MethodPost, "/api/auth/register", `{"email":"not-an-email","password":"x","role":"root"}`, nil)
	err := NewAuthHandler(stub, testCookie).Register(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 4 {
		t.Fatalf("expected 4 field errors (name, email, password, role), got %v", ve.Fields)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, *ports.Session, error) {
			return nil, nil, domain.ErrDuplicateEmail
		},
	}

	c, rec := newTestContext(http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@example.com","password":"secret1"}`, nil)
	if err := NewAuthHandler(stub, testCookie).Register(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no session must be started on failure")
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*domain.User, *ports.Session, error) {
			if password != "right" {
				return nil, nil, domain.ErrInvalidCredentials
			}
			return testAgent, &ports.Session{Token: "signed", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	h := NewAuthHandler(stub, testCookie)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"agent@example.com","password":"right"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected 200 with session cookie, got %d", rec.Code)
	}

	c, _ = newTestContext(http.MethodPost, "/api/auth/login", `{"email":"agent@example.com","password":"wrong"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_LogoutExpiresCookie(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/api/auth/logout", "", testAgent)
	if err := NewAuthHandler(&stubAuthService{}, testCookie).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("expected an expired cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, testCookie)

	c, rec := newTestContext(http.MethodGet, "/api/auth/me", "", testAgent)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := decodeBody(t, rec); body["id"] != testAgent.ID {
		t.Fatalf("unexpected body %v", body)
	}

	c, _ = newTestContext(http.MethodGet, "/api/auth/me", "", nil)
	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

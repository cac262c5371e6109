package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/recoverydesk/collections-api/internal/api/handler"
	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

// Stubs embed the service interface; calling a method that is not overridden
// panics, which fails the test.

type routerAuth struct {
	ports.AuthService
	sessions map[string]*domain.User
}

func (a *routerAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := a.sessions[token]; ok {
		return u, nil
	}
	return nil, domain.ErrInvalidToken
}

type routerClients struct {
	ports.ClientService
	created int
}

func (s *routerClients) List(context.Context, ports.ClientFilter) ([]*domain.Client, error) {
	return []*domain.Client{}, nil
}

func (s *routerClients) Create(_ context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	s.created++
	return &domain.Client{ID: "client_1", Name: in.Name, CreatedBy: in.CreatedBy}, nil
}

type routerPayments struct {
	ports.PaymentService
}

func (routerPayments) Apply(context.Context, ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
	return nil, &domain.ExceedsBalanceError{Remaining: 400}
}

type routerStats struct {
	ports.StatsService
}

func (routerStats) Overview(context.Context) (*domain.Overview, error) {
	return &domain.Overview{}, nil
}

type routerFixture struct {
	e       *echo.Echo
	clients *routerClients
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	clients := &routerClients{}
	e := NewRouter(Deps{
		Auth: &routerAuth{sessions: map[string]*domain.User{
			"agent-token":   {ID: "agent_1", Role: domain.RoleAgent},
			"manager-token": {ID: "manager_1", Role: domain.RoleManager},
			"admin-token":   {ID: "admin_1", Role: domain.RoleAdmin},
		}},
		Clients:  clients,
		Payments: routerPayments{},
		Stats:    routerStats{},
		Logger:   zerolog.Nop(),
		Cookie:   handler.CookieOptions{Name: "token"},
		Registry: prometheus.NewRegistry(),
	})
	return &routerFixture{e: e, clients: clients}
}

func (f *routerFixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AccessControl(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		token    string
		body     string
		wantCode int
	}{
		{"no session", http.MethodGet, "/api/clients", "", "", http.StatusUnauthorized},
		{"forged session", http.MethodGet, "/api/clients", "forged", "", http.StatusUnauthorized},
		{"agent reads clients", http.MethodGet, "/api/clients", "agent-token", "", http.StatusOK},
		{"admin reads clients", http.MethodGet, "/api/clients", "admin-token", "", http.StatusOK},
		{"admin cannot create clients", http.MethodPost, "/api/clients", "admin-token", `{"name":"Acme"}`, http.StatusForbidden},
		{"agent cannot view stats", http.MethodGet, "/api/stats/overview", "agent-token", "", http.StatusForbidden},
		{"manager views stats", http.MethodGet, "/api/stats/overview", "manager-token", "", http.StatusOK},
		{"agent cannot list users", http.MethodGet, "/api/users", "agent-token", "", http.StatusForbidden},
		{"manager cannot delete users", http.MethodDelete, "/api/users/agent_1", "manager-token", "", http.StatusForbidden},
		{"agent cannot delete clients", http.MethodDelete, "/api/clients/client_1", "agent-token", "", http.StatusForbidden},
		{"me requires a session", http.MethodGet, "/api/auth/me", "", "", http.StatusUnauthorized},
		{"me with a session", http.MethodGet, "/api/auth/me", "agent-token", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			rec := f.do(tt.method, tt.target, tt.token, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode == http.StatusForbidden && f.clients.created != 0 {
				t.Fatal("service must not be reached when the role gate denies")
			}
		})
	}
}

func TestRouter_AgentCreatesClient(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/clients", "agent-token", `{"name":"Acme"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.clients.created != 1 {
		t.Fatalf("expected one create call, got %d", f.clients.created)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["createdBy"] != "agent_1" {
		t.Fatalf("expected createdBy agent_1, got %v", body["createdBy"])
	}
}

func TestRouter_PaymentExceedingBalance(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/payments", "agent-token", `{"invoiceId":"invoice_1","amount":500,"method":"cash"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["remainingBalance"] != 400.0 {
		t.Fatalf("expected remainingBalance 400, got %v", body)
	}
}

func TestRouter_ValidationEnvelope(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/clients", "agent-token", `{"email":"nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "validation failed" || len(body.Errors) != 2 {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	tests := []struct {
		target   string
		wantCode int
	}{
		{"/health", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/does-not-exist", http.StatusNotFound},
		{"/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.target, "", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

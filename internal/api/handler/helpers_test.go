package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/api/middleware"
	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

var testAgent = &domain.User{ID: "user_1", Name: "Agent", Email: "agent@example.com", Role: domain.RoleAgent}

// newTestContext builds an echo context with the validator installed and,
// when user is non-nil, an authenticated user.
func newTestContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetUser(c, user)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, *ports.Session, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, *ports.Session, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, *ports.Session, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

type stubPaymentService struct {
	applyFn func(ctx context.Context, in ports.ApplyPaymentInput) (*ports.PaymentResult, error)
}

func (s *stubPaymentService) Apply(ctx context.Context, in ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
	return s.applyFn(ctx, in)
}

func (s *stubPaymentService) List(context.Context) ([]*domain.Payment, error) {
	return []*domain.Payment{}, nil
}

func (s *stubPaymentService) Get(context.Context, string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

func (s *stubPaymentService) ListByInvoice(context.Context, string) ([]*domain.Payment, error) {
	return nil, domain.ErrInvoiceNotFound
}

type stubInvoiceService struct {
	createFn func(ctx context.Context, in ports.CreateInvoiceInput) (*domain.Invoice, error)
	invoices []*domain.Invoice
}

func (s *stubInvoiceService) List(_ context.Context, f ports.InvoiceFilter) ([]*domain.Invoice, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.NewValidationError("bad status")
	}
	return s.invoices, nil
}

func (s *stubInvoiceService) Get(_ context.Context, id string) (*domain.Invoice, error) {
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (s *stubInvoiceService) ListByClient(context.Context, string) ([]*domain.Invoice, error) {
	return s.invoices, nil
}

func (s *stubInvoiceService) Create(ctx context.Context, in ports.CreateInvoiceInput) (*domain.Invoice, error) {
	return s.createFn(ctx, in)
}

func (s *stubInvoiceService) Update(context.Context, string, ports.UpdateInvoiceInput) (*domain.Invoice, error) {
	return nil, domain.ErrInvoiceNotFound
}

func (s *stubInvoiceService) Delete(context.Context, string) error {
	return nil
}

type stubUserService struct {
	deletedBy string
	deleted   string
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) {
	return []*domain.User{testAgent}, nil
}

func (s *stubUserService) Get(context.Context, string) (*domain.User, error) {
	return testAgent, nil
}

func (s *stubUserService) Update(context.Context, string, ports.UpdateUserInput) (*domain.User, error) {
	return testAgent, nil
}

func (s *stubUserService) Delete(_ context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfDeletionForbidden
	}
	s.deletedBy, s.deleted = actorID, id
	return nil
}

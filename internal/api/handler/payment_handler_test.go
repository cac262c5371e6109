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

func TestPaymentHandler_Create_Success(t *testing.T) {
	var got ports.ApplyPaymentInput
	stub := &stubPaymentService{
		applyFn: func(_ context.Context, in ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
			got = in
			return &ports.PaymentResult{
				Payment: &domain.Payment{
					ID: "payment_1", InvoiceID: in.InvoiceID, Amount: in.Amount,
					Method: in.Method, Confirmation: "TRF-ABC123", RecordedBy: in.RecordedBy,
				},
				InvoiceStatus:    domain.InvoiceStatusPartiallyPaid,
				AmountPaid:       600,
				RemainingBalance: 400,
			}, nil
		},
	}

	c, rec := newTestContext(http.MethodPost, "/api/payments",
		`{"invoiceId":"invoice_1","amount":600,"method":" Transfer ","paymentDate":"2026-03-01"}`, testAgent)
	if err := NewPaymentHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Method != domain.PaymentMethodTransfer {
		t.Errorf("expected normalized method transfer, got %q", got.Method)
	}
	if got.RecordedBy != testAgent.ID {
		t.Errorf("expected recordedBy %q, got %q", testAgent.ID, got.RecordedBy)
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !got.PaymentDate.Equal(want) {
		t.Errorf("expected payment date %v, got %v", want, got.PaymentDate)
	}

	body := decodeBody(t, rec)
	if body["invoiceStatus"] != "partially_paid" || body["remainingBalance"] != 400.0 || body["amountPaid"] != 600.0 {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestPaymentHandler_Create_PassesEngineErrors(t *testing.T) {
	stub := &stubPaymentService{
		applyFn: func(context.Context, ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
			return nil, &domain.ExceedsBalanceError{Remaining: 400}
		},
	}

	c, rec := newTestContext(http.MethodPost, "/api/payments", `{"invoiceId":"invoice_1","amount":500,"method":"cash"}`, testAgent)
	err := NewPaymentHandler(stub).Create(c)

	var eb *domain.ExceedsBalanceError
	if !errors.As(err, &eb) || eb.Remaining != 400 {
		t.Fatalf("expected ExceedsBalanceError with remaining 400, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatal("handler must leave the response to the error handler")
	}
}

func TestPaymentHandler_Create_AmountAndMethodReachEngine(t *testing.T) {
	called := false
	stub := &stubPaymentService{
		applyFn: func(_ context.Context, in ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
			called = true
			if in.Amount != 0 || in.Method != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil, domain.ErrInvalidAmount
		},
	}

	c, _ := newTestContext(http.MethodPost, "/api/payments", `{"invoiceId":"invoice_1"}`, testAgent)
	if err := NewPaymentHandler(stub).Create(c); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if !called {
		t.Fatal("amount and method checks belong to the payment service")
	}
}

func TestPaymentHandler_Create_MissingInvoiceReachesEngine(t *testing.T) {
	var got ports.ApplyPaymentInput
	stub := &stubPaymentService{
		applyFn: func(_ context.Context, in ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
			got = in
			return nil, domain.ErrInvalidAmount
		},
	}

	c, _ := newTestContext(http.MethodPost, "/api/payments", `{"amount":-1,"method":"cash"}`, testAgent)
	if err := NewPaymentHandler(stub).Create(c); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if got.InvoiceID != "" || got.Amount != -1 || got.Method != domain.PaymentMethodCash {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestPaymentHandler_Create_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"invoiceId":`},
		{"bad payment date", `{"invoiceId":"invoice_1","amount":10,"method":"cash","paymentDate":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubPaymentService{
				applyFn: func(context.Context, ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			c, _ := newTestContext(http.MethodPost, "/api/payments", tt.body, testAgent)

			var ve *domain.ValidationError
			if err := NewPaymentHandler(stub).Create(c); !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

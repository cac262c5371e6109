package ports

import (
	"context"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// ApplyPaymentInput is the reconciliation request. A zero PaymentDate means now.
type ApplyPaymentInput struct {
	InvoiceID   string
	Amount      float64
	Method      domain.PaymentMethod
	PaymentDate time.Time
	Note        string
	RecordedBy  string
}

// PaymentResult is the outcome of a successful reconciliation.
type PaymentResult struct {
	Payment          *domain.Payment
	InvoiceStatus    domain.InvoiceStatus
	AmountPaid       float64
	RemainingBalance float64
}

type PaymentService interface {
	Apply(ctx context.Context, input ApplyPaymentInput) (*PaymentResult, error)
	List(ctx context.Context) ([]*domain.Payment, error)
	Get(ctx context.Context, id string) (*domain.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*domain.Payment, error)
}

// Locker serializes work on a single key across concurrent requests.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

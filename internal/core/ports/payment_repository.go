package ports

import (
	"context"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// PaymentRepository persists the payment ledger.
type PaymentRepository interface {
	// Record inserts the payment and writes the invoice's new AmountPaid and
	// Status as one atomic unit. The invoice write only applies while the
	// stored amount_paid still equals previousPaid; otherwise nothing is
	// persisted and domain.ErrConflict is returned.
	Record(ctx context.Context, p *domain.Payment, inv *domain.Invoice, previousPaid float64) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context) ([]*domain.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*domain.Payment, error)
	CountByInvoice(ctx context.Context, invoiceID string) (int64, error)
}

package ports

import (
	"context"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// InvoiceFilter narrows invoice listings. Empty fields are ignored.
type InvoiceFilter struct {
	ClientID string
	Status   domain.InvoiceStatus
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*domain.Invoice, error)
	// Update persists the editable fields. AmountPaid is never written here;
	// it only changes through PaymentRepository.Record.
	Update(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
	CountByClient(ctx context.Context, clientID string) (int64, error)
}

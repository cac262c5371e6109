package ports

import (
	"context"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

type CreateInvoiceInput struct {
	InvoiceNumber string
	ClientID      string
	Amount        float64
	DueDate       time.Time
	CreatedBy     string
}

// UpdateInvoiceInput holds the editable invoice fields. Nil means unchanged.
// Status may be set manually, including to overdue.
type UpdateInvoiceInput struct {
	InvoiceNumber *string
	ClientID      *string
	Amount        *float64
	DueDate       *time.Time
	Status        *domain.InvoiceStatus
}

type InvoiceService interface {
	List(ctx context.Context, filter InvoiceFilter) ([]*domain.Invoice, error)
	Get(ctx context.Context, id string) (*domain.Invoice, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error)
	Create(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error)
	Update(ctx context.Context, id string, input UpdateInvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
}

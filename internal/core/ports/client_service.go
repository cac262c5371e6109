package ports

import (
	"context"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

type CreateClientInput struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedBy string
}

// UpdateClientInput holds the editable client fields. Nil means unchanged.
type UpdateClientInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type ClientService interface {
	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

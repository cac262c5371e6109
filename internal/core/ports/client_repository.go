package ports

import (
	"context"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// ClientFilter narrows client listings. Search is a case-insensitive
// substring match on the client name.
type ClientFilter struct {
	Search string
}

type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

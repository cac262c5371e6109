package ports

import (
	"context"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// RecoveryActionFilter narrows action listings. Empty fields are ignored.
type RecoveryActionFilter struct {
	ClientID  string
	InvoiceID string
}

type RecoveryActionRepository interface {
	Create(ctx context.Context, a *domain.RecoveryAction) (*domain.RecoveryAction, error)
	FindByID(ctx context.Context, id string) (*domain.RecoveryAction, error)
	List(ctx context.Context, filter RecoveryActionFilter) ([]*domain.RecoveryAction, error)
	Update(ctx context.Context, a *domain.RecoveryAction) (*domain.RecoveryAction, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter RecoveryActionFilter) (int64, error)
}

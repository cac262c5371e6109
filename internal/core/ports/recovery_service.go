package ports

import (
	"context"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// CreateRecoveryActionInput carries a new collection attempt. A zero
// ActionDate means now.
type CreateRecoveryActionInput struct {
	InvoiceID   string
	ClientID    string
	Type        domain.RecoveryActionType
	Note        string
	Result      string
	ActionDate  time.Time
	PerformedBy string
}

// UpdateRecoveryActionInput holds the editable fields. Nil means unchanged.
type UpdateRecoveryActionInput struct {
	Type       *domain.RecoveryActionType
	Note       *string
	Result     *string
	ActionDate *time.Time
}

type RecoveryActionService interface {
	List(ctx context.Context, filter RecoveryActionFilter) ([]*domain.RecoveryAction, error)
	Get(ctx context.Context, id string) (*domain.RecoveryAction, error)
	Create(ctx context.Context, input CreateRecoveryActionInput) (*domain.RecoveryAction, error)
	Update(ctx context.Context, id string, input UpdateRecoveryActionInput) (*domain.RecoveryAction, error)
	Delete(ctx context.Context, id string) error
}

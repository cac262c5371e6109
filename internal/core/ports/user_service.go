package ports

import (
	"context"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// UpdateUserInput holds the admin-editable user fields. Nil means unchanged.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *domain.Role
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	// Delete removes a user; actorID is the admin performing the deletion.
	Delete(ctx context.Context, actorID, id string) error
}

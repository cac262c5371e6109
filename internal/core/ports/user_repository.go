package ports

import (
	"context"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Emails are stored and looked up in their normalized form.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

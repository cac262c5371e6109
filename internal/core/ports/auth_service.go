package ports

import (
	"context"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up. Role defaults to agent.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Session is an issued session token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, *Session, error)
	Login(ctx context.Context, email, password string) (*domain.User, *Session, error)
	// Authenticate verifies a session token and resolves it to a live user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// TokenManager issues and verifies signed session tokens bound to a user id.
type TokenManager interface {
	Issue(userID string) (*Session, error)
	Verify(token string) (string, error)
}

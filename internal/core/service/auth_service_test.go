package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, NewTokenManager("secret", time.Hour), discardLogger)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, session, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleAgent {
		t.Fatalf("expected default role agent, got %s", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(user.PasswordHash)); cost != bcryptCost {
		t.Fatalf("expected bcrypt cost %d, got %d", bcryptCost, cost)
	}
	if session == nil || session.Token == "" {
		t.Fatal("expected a session token")
	}
}

func TestAuthService_Register_DuplicateEmailCaseInsensitive(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	first, _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pass1234"})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, _, err = svc.Register(context.Background(), ports.RegisterInput{Name: "Bobby", Email: "BOB@example.com", Password: "other123"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	stored, err := repo.FindByID(context.Background(), first.ID)
	if err != nil || stored.Name != "Bob" {
		t.Fatalf("first user altered: %+v, %v", stored, err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(repo.users))
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "pass1234", Role: "root"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	registered, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Carol", Email: "carol@example.com", Password: "s3cret!!", Role: domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, session, err := svc.Login(context.Background(), "  CAROL@example.com", "s3cret!!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	userID, err := NewTokenManager("secret", time.Hour).Verify(session.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if userID != registered.ID {
		t.Fatalf("expected subject %s, got %s", registered.ID, userID)
	}
}

func TestAuthService_Login_SameErrorForUnknownUserAndBadPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	_, _, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "Dave", Email: "dave@example.com", Password: "goodpass"})

	_, _, errBadPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, errNoUser := svc.Login(context.Background(), "ghost@example.com", "goodpass")

	if !errors.Is(errBadPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", errBadPass)
	}
	if !errors.Is(errNoUser, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", errNoUser)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, session, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Frank", Email: "frank@example.com", Password: "pass1234"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), session.Token)
	if err != nil || got.ID != user.ID {
		t.Fatalf("expected %s, got %+v (%v)", user.ID, got, err)
	}

	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	delete(repo.users, user.ID)
	if _, err := svc.Authenticate(context.Background(), session.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for deleted user, got %v", err)
	}
}

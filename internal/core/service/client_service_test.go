package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
	"github.com/recoverydesk/collections-api/internal/infrastructure/lock"
)

func TestClientService_CreateAndUpdate(t *testing.T) {
	clients := newStubClientRepo()
	svc := NewClientService(clients, newStubInvoiceRepo(), newStubActionRepo(), noopLocker{}, discardLogger)

	c, err := svc.Create(context.Background(), ports.CreateClientInput{Name: "Acme", Email: " Billing@Acme.com ", CreatedBy: "user_1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Email != "billing@acme.com" || c.CreatedBy != "user_1" {
		t.Fatalf("unexpected client: %+v", c)
	}

	if _, err := svc.Create(context.Background(), ports.CreateClientInput{Name: "Acme 2", Email: "billing@acme.com"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	phone := "555-0100"
	updated, err := svc.Update(context.Background(), c.ID, ports.UpdateClientInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone || updated.Name != "Acme" {
		t.Fatalf("unexpected client after update: %+v", updated)
	}

	if _, err := svc.Update(context.Background(), "missing", ports.UpdateClientInput{Phone: &phone}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientService_DeleteRefusesWithInvoices(t *testing.T) {
	clients := newStubClientRepo()
	invoices := newStubInvoiceRepo()
	svc := NewClientService(clients, invoices, newStubActionRepo(), noopLocker{}, discardLogger)

	busy, _ := clients.Create(context.Background(), &domain.Client{Name: "Busy"})
	idle, _ := clients.Create(context.Background(), &domain.Client{Name: "Idle"})
	invoices.seed(domain.Invoice{ID: "inv_1", InvoiceNumber: "INV-1", ClientID: busy.ID, Amount: 10})

	if err := svc.Delete(context.Background(), busy.ID); !errors.Is(err, domain.ErrHasDependents) {
		t.Fatalf("expected ErrHasDependents, got %v", err)
	}
	if err := svc.Delete(context.Background(), idle.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), idle.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestClientService_DeleteWaitsForClientLock(t *testing.T) {
	clients := newStubClientRepo()
	locks := lock.NewStriped(1, 5*time.Second)
	svc := NewClientService(clients, newStubInvoiceRepo(), newStubActionRepo(), locks, discardLogger)

	c, _ := clients.Create(context.Background(), &domain.Client{Name: "Acme"})

	release, err := locks.Lock(context.Background(), "client:"+c.ID)
	if err != nil {
		t.Fatalf("hold lock: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- svc.Delete(context.Background(), c.ID) }()

	select {
	case err := <-done:
		t.Fatalf("delete returned while the client lock was held: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("delete did not resume after the lock was released")
	}
}

func TestClientService_DeleteLockTimeout(t *testing.T) {
	clients := newStubClientRepo()
	svc := NewClientService(clients, newStubInvoiceRepo(), newStubActionRepo(), failingLocker{err: context.DeadlineExceeded}, discardLogger)

	c, _ := clients.Create(context.Background(), &domain.Client{Name: "Acme"})
	if err := svc.Delete(context.Background(), c.ID); !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	if _, err := clients.FindByID(context.Background(), c.ID); err != nil {
		t.Fatalf("client must survive a lock timeout: %v", err)
	}
}

func TestClientService_UpdateClearsEmail(t *testing.T) {
	clients := newStubClientRepo()
	svc := NewClientService(clients, newStubInvoiceRepo(), newStubActionRepo(), noopLocker{}, discardLogger)

	c, err := svc.Create(context.Background(), ports.CreateClientInput{Name: "Acme", Email: "billing@acme.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := ""
	updated, err := svc.Update(context.Background(), c.ID, ports.UpdateClientInput{Email: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "" || updated.Name != "Acme" {
		t.Fatalf("expected email cleared, got %+v", updated)
	}

	if _, err := svc.Create(context.Background(), ports.CreateClientInput{Name: "Acme 2", Email: "billing@acme.com"}); err != nil {
		t.Fatalf("a cleared email must be free for reuse: %v", err)
	}
}

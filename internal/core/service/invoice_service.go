package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

type InvoiceService struct {
	repo     ports.InvoiceRepository
	clients  ports.ClientRepository
	payments ports.PaymentRepository
	actions  ports.RecoveryActionRepository
	locker   ports.Locker
	logger   zerolog.Logger
}

func NewInvoiceService(
	repo ports.InvoiceRepository,
	clients ports.ClientRepository,
	payments ports.PaymentRepository,
	actions ports.RecoveryActionRepository,
	locker ports.Locker,
	logger zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		repo:     repo,
		clients:  clients,
		payments: payments,
		actions:  actions,
		locker:   locker,
		logger:   logger,
	}
}

func (s *InvoiceService) List(ctx context.Context, filter ports.InvoiceFilter) ([]*domain.Invoice, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status must be one of: unpaid, partially_paid, paid, overdue")
	}
	return s.repo.List(ctx, filter)
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByClient returns the invoices of an existing client.
func (s *InvoiceService) ListByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.InvoiceFilter{ClientID: clientID})
}

// Create opens a new unpaid invoice for an existing client. The client lock
// keeps a concurrent client deletion from orphaning the invoice.
func (s *InvoiceService) Create(ctx context.Context, in ports.CreateInvoiceInput) (*domain.Invoice, error) {
	if in.Amount < 0 {
		return nil, domain.NewValidationError("amount must be greater than or equal to 0")
	}

	unlock, err := lockClient(ctx, s.locker, in.ClientID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv, err := s.repo.Create(ctx, &domain.Invoice{
		InvoiceNumber: in.InvoiceNumber,
		ClientID:      in.ClientID,
		Amount:        domain.RoundMoney(in.Amount),
		AmountPaid:    0,
		DueDate:       in.DueDate.UTC(),
		Status:        domain.InvoiceStatusUnpaid,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("client_id", inv.ClientID).
		Float64("amount", inv.Amount).
		Msg("invoice created")
	return inv, nil
}

// Update applies manual edits. It holds the invoice lock so that an amount
// change cannot interleave with a payment being reconciled.
func (s *InvoiceService) Update(ctx context.Context, id string, in ports.UpdateInvoiceInput) (*domain.Invoice, error) {
	unlock, err := lockInvoice(ctx, s.locker, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.InvoiceNumber != nil {
		inv.InvoiceNumber = *in.InvoiceNumber
	}
	if in.ClientID != nil && *in.ClientID != inv.ClientID {
		if _, err := s.clients.FindByID(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		inv.ClientID = *in.ClientID
	}
	if in.Amount != nil {
		amount := domain.RoundMoney(*in.Amount)
		if amount < 0 {
			return nil, domain.NewValidationError("amount must be greater than or equal to 0")
		}
		if amount < inv.AmountPaid {
			return nil, domain.NewValidationError("amount cannot be lower than the amount already paid")
		}
		inv.Amount = amount
	}
	if in.DueDate != nil {
		inv.DueDate = in.DueDate.UTC()
	}
	switch {
	case in.Status != nil:
		if !in.Status.Valid() {
			return nil, domain.NewValidationError("status must be one of: unpaid, partially_paid, paid, overdue")
		}
		if err := inv.CheckManualStatus(*in.Status); err != nil {
			return nil, err
		}
		inv.Status = *in.Status
	case in.Amount != nil:
		inv.ReconcileStatus()
	}
	inv.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, inv)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("invoice_id", id).Str("status", string(updated.Status)).Msg("invoice updated")
	return updated, nil
}

// Delete refuses to remove an invoice referenced by payments or recovery
// actions. It holds the invoice lock so a payment cannot land between the
// dependents check and the delete.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	unlock, err := lockInvoice(ctx, s.locker, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	payments, err := s.payments.CountByInvoice(ctx, id)
	if err != nil {
		return err
	}
	actions, err := s.actions.Count(ctx, ports.RecoveryActionFilter{InvoiceID: id})
	if err != nil {
		return err
	}
	if payments > 0 || actions > 0 {
		return domain.ErrHasDependents
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("invoice_id", id).Msg("invoice deleted")
	return nil
}

// lockInvoice takes the per-invoice lock shared by payments, manual edits and
// deletion.
func lockInvoice(ctx context.Context, locker ports.Locker, id string) (func(), error) {
	return lockKey(ctx, locker, "invoice:"+id)
}

// lockClient takes the per-client lock shared by invoice creation and client
// deletion.
func lockClient(ctx context.Context, locker ports.Locker, id string) (func(), error) {
	return lockKey(ctx, locker, "client:"+id)
}

// lockKey never nests: the in-process locker is striped, so a second key may
// land on the stripe already held.
func lockKey(ctx context.Context, locker ports.Locker, key string) (func(), error) {
	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrLockTimeout
		}
		return nil, err
	}
	return unlock, nil
}

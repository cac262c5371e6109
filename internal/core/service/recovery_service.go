package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

type RecoveryActionService struct {
	repo     ports.RecoveryActionRepository
	invoices ports.InvoiceRepository
	clients  ports.ClientRepository
	logger   zerolog.Logger
}

func NewRecoveryActionService(
	repo ports.RecoveryActionRepository,
	invoices ports.InvoiceRepository,
	clients ports.ClientRepository,
	logger zerolog.Logger,
) *RecoveryActionService {
	return &RecoveryActionService{repo: repo, invoices: invoices, clients: clients, logger: logger}
}

// List returns actions, optionally scoped to a client or an invoice. A scope
// that names a missing client or invoice is reported as not found.
func (s *RecoveryActionService) List(ctx context.Context, filter ports.RecoveryActionFilter) ([]*domain.RecoveryAction, error) {
	if filter.ClientID != "" {
		if _, err := s.clients.FindByID(ctx, filter.ClientID); err != nil {
			return nil, err
		}
	}
	if filter.InvoiceID != "" {
		if _, err := s.invoices.FindByID(ctx, filter.InvoiceID); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *RecoveryActionService) Get(ctx context.Context, id string) (*domain.RecoveryAction, error) {
	return s.repo.FindByID(ctx, id)
}

// Create logs an attempt. The invoice and the client must exist and the
// invoice must belong to that client.
func (s *RecoveryActionService) Create(ctx context.Context, in ports.CreateRecoveryActionInput) (*domain.RecoveryAction, error) {
	if !in.Type.Valid() {
		return nil, domain.NewValidationError("type must be one of: phone_call, email, letter, visit, legal")
	}

	inv, err := s.invoices.FindByID(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	// Compare stored ids: the lookups accept any hex casing.
	if inv.ClientID != client.ID {
		return nil, domain.NewValidationError("invoice does not belong to the given client")
	}

	now := time.Now().UTC()
	actionDate := in.ActionDate
	if actionDate.IsZero() {
		actionDate = now
	}

	action, err := s.repo.Create(ctx, &domain.RecoveryAction{
		InvoiceID:   inv.ID,
		ClientID:    client.ID,
		Type:        in.Type,
		Note:        in.Note,
		Result:      in.Result,
		ActionDate:  actionDate.UTC(),
		PerformedBy: in.PerformedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("action_id", action.ID).
		Str("invoice_id", action.InvoiceID).
		Str("type", string(action.Type)).
		Msg("recovery action logged")
	return action, nil
}

func (s *RecoveryActionService) Update(ctx context.Context, id string, in ports.UpdateRecoveryActionInput) (*domain.RecoveryAction, error) {
	action, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, domain.NewValidationError("type must be one of: phone_call, email, letter, visit, legal")
		}
		action.Type = *in.Type
	}
	if in.Note != nil {
		action.Note = *in.Note
	}
	if in.Result != nil {
		action.Result = *in.Result
	}
	if in.ActionDate != nil {
		action.ActionDate = in.ActionDate.UTC()
	}
	action.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, action)
}

func (s *RecoveryActionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("action_id", id).Msg("recovery action deleted")
	return nil
}

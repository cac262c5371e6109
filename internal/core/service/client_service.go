package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

type ClientService struct {
	repo     ports.ClientRepository
	invoices ports.InvoiceRepository
	actions  ports.RecoveryActionRepository
	locker   ports.Locker
	logger   zerolog.Logger
}

func NewClientService(
	repo ports.ClientRepository,
	invoices ports.InvoiceRepository,
	actions ports.RecoveryActionRepository,
	locker ports.Locker,
	logger zerolog.Logger,
) *ClientService {
	return &ClientService{repo: repo, invoices: invoices, actions: actions, locker: locker, logger: logger}
}

func (s *ClientService) List(ctx context.Context, filter ports.ClientFilter) ([]*domain.Client, error) {
	return s.repo.List(ctx, filter)
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	now := time.Now().UTC()
	client, err := s.repo.Create(ctx, &domain.Client{
		Name:      in.Name,
		Email:     domain.NormalizeEmail(in.Email),
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", client.ID).Str("created_by", in.CreatedBy).Msg("client created")
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Email != nil {
		client.Email = domain.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	client.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, client)
}

// Delete refuses to remove a client that still has invoices or recovery
// actions. It holds the client lock taken by invoice creation.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	unlock, err := lockClient(ctx, s.locker, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	invoices, err := s.invoices.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	actions, err := s.actions.Count(ctx, ports.RecoveryActionFilter{ClientID: id})
	if err != nil {
		return err
	}
	if invoices > 0 || actions > 0 {
		return domain.ErrHasDependents
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

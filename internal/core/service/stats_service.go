package service

import (
	"context"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

// StatsService recomputes every report from current state; nothing is cached.
type StatsService struct {
	repo ports.StatsRepository
	now  func() time.Time
}

func NewStatsService(repo ports.StatsRepository) *StatsService {
	return &StatsService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *StatsService) Overview(ctx context.Context) (*domain.Overview, error) {
	return s.repo.Overview(ctx, s.now())
}

func (s *StatsService) Invoices(ctx context.Context) (*domain.InvoiceStats, error) {
	byStatus, err := s.repo.InvoiceTotalsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.OverdueInvoices(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if byStatus == nil {
		byStatus = []domain.StatusTotal{}
	}
	if overdue == nil {
		overdue = []domain.OverdueInvoice{}
	}
	return &domain.InvoiceStats{ByStatus: byStatus, Overdue: overdue}, nil
}

func (s *StatsService) Agents(ctx context.Context) (*domain.AgentStats, error) {
	actions, err := s.repo.ActionsByAgent(ctx)
	if err != nil {
		return nil, err
	}
	collections, err := s.repo.CollectionsByAgent(ctx)
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []domain.AgentActions{}
	}
	if collections == nil {
		collections = []domain.AgentCollections{}
	}
	return &domain.AgentStats{RecoveryActions: actions, Collections: collections}, nil
}

package ports

import (
	"context"
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// StatsRepository runs read-only aggregations over the entity store.
// Overdue-ness is evaluated against now on every call.
type StatsRepository interface {
	Overview(ctx context.Context, now time.Time) (*domain.Overview, error)
	InvoiceTotalsByStatus(ctx context.Context) ([]domain.StatusTotal, error)
	OverdueInvoices(ctx context.Context, now time.Time) ([]domain.OverdueInvoice, error)
	ActionsByAgent(ctx context.Context) ([]domain.AgentActions, error)
	CollectionsByAgent(ctx context.Context) ([]domain.AgentCollections, error)
}

type StatsService interface {
	Overview(ctx context.Context) (*domain.Overview, error)
	Invoices(ctx context.Context) (*domain.InvoiceStats, error)
	Agents(ctx context.Context) (*domain.AgentStats, error)
}

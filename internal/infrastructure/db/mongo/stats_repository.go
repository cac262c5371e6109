package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// StatsRepository answers reporting queries with aggregation pipelines.
// Nothing is cached; every call reads current state.
type StatsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

func outstandingStatuses() bson.A {
	out := bson.A{}
	for _, s := range domain.OutstandingStatuses {
		out = append(out, string(s))
	}
	return out
}

// overdueExpr is the aggregation form of Invoice.IsOverdue.
func overdueExpr(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"$eq": bson.A{"$status", string(domain.InvoiceStatusOverdue)}},
		bson.M{"$and": bson.A{
			bson.M{"$in": bson.A{"$status", outstandingStatuses()}},
			bson.M{"$lt": bson.A{"$due_date", now}},
		}},
	}}
}

func userLookup(localField string) bson.A {
	return bson.A{
		bson.M{"$lookup": bson.M{
			"from":         collectionUsers,
			"localField":   localField,
			"foreignField": "_id",
			"as":           "user",
		}},
		bson.M{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
	}
}

func (r *StatsRepository) aggregate(ctx context.Context, coll string, pipeline bson.A, out interface{}) error {
	cur, err := r.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", coll, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s aggregate: %w", coll, err)
	}
	return nil
}

func (r *StatsRepository) Overview(ctx context.Context, now time.Time) (*domain.Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	counts := make(map[string]int64, 5)
	for _, coll := range []string{
		collectionUsers, collectionClients, collectionInvoices, collectionPayments, collectionRecoveryActions,
	} {
		n, err := r.db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", coll, err)
		}
		counts[coll] = n
	}

	var totals []struct {
		TotalAmount float64 `bson:"total_amount"`
		TotalPaid   float64 `bson:"total_paid"`
		Overdue     int64   `bson:"overdue"`
	}
	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":          nil,
			"total_amount": bson.M{"$sum": "$amount"},
			"total_paid":   bson.M{"$sum": "$amount_paid"},
			"overdue":      bson.M{"$sum": bson.M{"$cond": bson.A{overdueExpr(now), 1, 0}}},
		}},
	}
	if err := r.aggregate(ctx, collectionInvoices, pipeline, &totals); err != nil {
		return nil, err
	}

	overview := &domain.Overview{
		Users:           counts[collectionUsers],
		Clients:         counts[collectionClients],
		Invoices:        counts[collectionInvoices],
		Payments:        counts[collectionPayments],
		RecoveryActions: counts[collectionRecoveryActions],
	}
	if len(totals) > 0 {
		overview.TotalAmount = domain.RoundMoney(totals[0].TotalAmount)
		overview.TotalPaid = domain.RoundMoney(totals[0].TotalPaid)
		overview.TotalOutstanding = domain.RoundMoney(totals[0].TotalAmount - totals[0].TotalPaid)
		overview.OverdueInvoices = totals[0].Overdue
	}
	return overview, nil
}

func (r *StatsRepository) InvoiceTotalsByStatus(ctx context.Context) ([]domain.StatusTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []struct {
		Status      string  `bson:"_id"`
		Count       int64   `bson:"count"`
		TotalAmount float64 `bson:"total_amount"`
		TotalPaid   float64 `bson:"total_paid"`
	}
	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":          "$status",
			"count":        bson.M{"$sum": 1},
			"total_amount": bson.M{"$sum": "$amount"},
			"total_paid":   bson.M{"$sum": "$amount_paid"},
		}},
		bson.M{"$sort": bson.M{"_id": 1}},
	}
	if err := r.aggregate(ctx, collectionInvoices, pipeline, &rows); err != nil {
		return nil, err
	}

	totals := make([]domain.StatusTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.StatusTotal{
			Status:      domain.InvoiceStatus(row.Status),
			Count:       row.Count,
			TotalAmount: domain.RoundMoney(row.TotalAmount),
			TotalPaid:   domain.RoundMoney(row.TotalPaid),
		})
	}
	return totals, nil
}

// OverdueInvoices lists overdue invoices with their client's name, oldest due
// date first.
func (r *StatsRepository) OverdueInvoices(ctx context.Context, now time.Time) ([]domain.OverdueInvoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []struct {
		ID            primitive.ObjectID `bson:"_id"`
		InvoiceNumber string             `bson:"invoice_number"`
		ClientID      primitive.ObjectID `bson:"client_id"`
		ClientName    string             `bson:"client_name"`
		Amount        float64            `bson:"amount"`
		AmountPaid    float64            `bson:"amount_paid"`
		DueDate       time.Time          `bson:"due_date"`
		Status        string             `bson:"status"`
	}
	pipeline := bson.A{
		bson.M{"$match": bson.M{"$expr": overdueExpr(now)}},
		bson.M{"$sort": bson.M{"due_date": 1}},
		bson.M{"$lookup": bson.M{
			"from":         collectionClients,
			"localField":   "client_id",
			"foreignField": "_id",
			"as":           "client",
		}},
		bson.M{"$unwind": bson.M{"path": "$client", "preserveNullAndEmptyArrays": true}},
		bson.M{"$project": bson.M{
			"invoice_number": 1,
			"client_id":      1,
			"client_name":    "$client.name",
			"amount":         1,
			"amount_paid":    1,
			"due_date":       1,
			"status":         1,
		}},
	}
	if err := r.aggregate(ctx, collectionInvoices, pipeline, &rows); err != nil {
		return nil, err
	}

	invoices := make([]domain.OverdueInvoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, domain.OverdueInvoice{
			ID:               row.ID.Hex(),
			InvoiceNumber:    row.InvoiceNumber,
			ClientID:         hexID(row.ClientID),
			ClientName:       row.ClientName,
			Amount:           row.Amount,
			AmountPaid:       row.AmountPaid,
			RemainingBalance: domain.RoundMoney(row.Amount - row.AmountPaid),
			DueDate:          row.DueDate.UTC(),
			Status:           domain.InvoiceStatus(row.Status),
		})
	}
	return invoices, nil
}

type agentRow struct {
	UserID primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Email  string             `bson:"email"`
	Role   string             `bson:"role"`
	Count  int64              `bson:"count"`
	Amount float64            `bson:"amount"`
}

var agentProjection = bson.M{"$project": bson.M{
	"count":  1,
	"amount": 1,
	"name":   "$user.name",
	"email":  "$user.email",
	"role":   "$user.role",
}}

func (r *StatsRepository) ActionsByAgent(ctx context.Context) ([]domain.AgentActions, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$group": bson.M{"_id": "$performed_by", "count": bson.M{"$sum": 1}}},
	}
	pipeline = append(pipeline, userLookup("_id")...)
	pipeline = append(pipeline, agentProjection, bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}})

	var rows []agentRow
	if err := r.aggregate(ctx, collectionRecoveryActions, pipeline, &rows); err != nil {
		return nil, err
	}

	agents := make([]domain.AgentActions, 0, len(rows))
	for _, row := range rows {
		agents = append(agents, domain.AgentActions{
			UserID: hexID(row.UserID),
			Name:   row.Name,
			Email:  row.Email,
			Role:   domain.Role(row.Role),
			Count:  row.Count,
		})
	}
	return agents, nil
}

func (r *StatsRepository) CollectionsByAgent(ctx context.Context) ([]domain.AgentCollections, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":    "$recorded_by",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}},
	}
	pipeline = append(pipeline, userLookup("_id")...)
	pipeline = append(pipeline, agentProjection, bson.M{"$sort": bson.D{{Key: "amount", Value: -1}, {Key: "_id", Value: 1}}})

	var rows []agentRow
	if err := r.aggregate(ctx, collectionPayments, pipeline, &rows); err != nil {
		return nil, err
	}

	agents := make([]domain.AgentCollections, 0, len(rows))
	for _, row := range rows {
		agents = append(agents, domain.AgentCollections{
			UserID:          hexID(row.UserID),
			Name:            row.Name,
			Email:           row.Email,
			Role:            domain.Role(row.Role),
			Payments:        row.Count,
			AmountCollected: domain.RoundMoney(row.Amount),
		})
	}
	return agents, nil
}

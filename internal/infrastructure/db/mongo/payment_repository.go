package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// PaymentRepository stores the payment ledger. Recording a payment also
// moves the invoice's paid amount, so it needs both collections and a
// client able to open sessions.
type PaymentRepository struct {
	client   *mongo.Client
	coll     *mongo.Collection
	invoices *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		client:   db.Client(),
		coll:     db.Collection(collectionPayments),
		invoices: db.Collection(collectionInvoices),
	}
}

type paymentDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	InvoiceID    primitive.ObjectID `bson:"invoice_id"`
	Amount       float64            `bson:"amount"`
	PaymentDate  time.Time          `bson:"payment_date"`
	Method       string             `bson:"method"`
	Note         string             `bson:"note,omitempty"`
	Confirmation string             `bson:"confirmation"`
	RecordedBy   primitive.ObjectID `bson:"recorded_by"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *paymentDocument) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:           d.ID.Hex(),
		InvoiceID:    hexID(d.InvoiceID),
		Amount:       d.Amount,
		PaymentDate:  d.PaymentDate.UTC(),
		Method:       domain.PaymentMethod(d.Method),
		Note:         d.Note,
		Confirmation: d.Confirmation,
		RecordedBy:   hexID(d.RecordedBy),
		CreatedAt:    d.CreatedAt,
	}
}

func newPaymentDocument(p *domain.Payment, invoiceID primitive.ObjectID) paymentDocument {
	return paymentDocument{
		InvoiceID:    invoiceID,
		Amount:       p.Amount,
		PaymentDate:  storedTime(p.PaymentDate),
		Method:       string(p.Method),
		Note:         p.Note,
		Confirmation: p.Confirmation,
		RecordedBy:   refID(p.RecordedBy),
		CreatedAt:    storedTime(p.CreatedAt),
	}
}

// Record inserts the payment and advances the invoice inside one
// transaction. The invoice update is conditioned on amount_paid still being
// previousPaid; when another writer got there first nothing is committed.
func (r *PaymentRepository) Record(ctx context.Context, p *domain.Payment, inv *domain.Invoice, previousPaid float64) (*domain.Payment, error) {
	invoiceID, ok := objectID(inv.ID)
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newPaymentDocument(p, invoiceID)

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	inserted, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"_id": invoiceID, "amount_paid": previousPaid}
		update := bson.M{"$set": bson.M{
			"amount_paid": inv.AmountPaid,
			"status":      string(inv.Status),
			"updated_at":  storedTime(inv.UpdatedAt),
		}}
		res, err := r.invoices.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, fmt.Errorf("update invoice balance: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrConflict
		}

		ins, err := r.coll.InsertOne(sc, doc)
		if err != nil {
			return nil, fmt.Errorf("insert payment: %w", err)
		}
		return ins.InsertedID, nil
	})
	if err != nil {
		return nil, err
	}

	doc.ID = inserted.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc paymentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	return r.find(ctx, bson.M{})
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*domain.Payment, error) {
	oid, ok := objectID(invoiceID)
	if !ok {
		return []*domain.Payment{}, nil
	}
	return r.find(ctx, bson.M{"invoice_id": oid})
}

// find returns matching payments, newest payment date first.
func (r *PaymentRepository) find(ctx context.Context, filter bson.M) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "payment_date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	var docs []paymentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}

	payments := make([]*domain.Payment, 0, len(docs))
	for i := range docs {
		payments = append(payments, docs[i].toDomain())
	}
	return payments, nil
}

func (r *PaymentRepository) CountByInvoice(ctx context.Context, invoiceID string) (int64, error) {
	oid, ok := objectID(invoiceID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"invoice_id": oid})
}

// EnsureIndexes creates the ledger lookup indexes.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "payment_date", Value: -1}}},
		{Keys: bson.D{{Key: "recorded_by", Value: 1}}},
		{Keys: bson.D{{Key: "confirmation", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

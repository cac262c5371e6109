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
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

type InvoiceRepository struct {
	coll *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{coll: db.Collection(collectionInvoices)}
}

type invoiceDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	InvoiceNumber string             `bson:"invoice_number"`
	ClientID      primitive.ObjectID `bson:"client_id"`
	Amount        float64            `bson:"amount"`
	AmountPaid    float64            `bson:"amount_paid"`
	DueDate       time.Time          `bson:"due_date"`
	Status        string             `bson:"status"`
	CreatedBy     primitive.ObjectID `bson:"created_by"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *invoiceDocument) toDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:            d.ID.Hex(),
		InvoiceNumber: d.InvoiceNumber,
		ClientID:      hexID(d.ClientID),
		Amount:        d.Amount,
		AmountPaid:    d.AmountPaid,
		DueDate:       d.DueDate.UTC(),
		Status:        domain.InvoiceStatus(d.Status),
		CreatedBy:     hexID(d.CreatedBy),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func newInvoiceDocument(inv *domain.Invoice) invoiceDocument {
	return invoiceDocument{
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      refID(inv.ClientID),
		Amount:        inv.Amount,
		AmountPaid:    inv.AmountPaid,
		DueDate:       storedTime(inv.DueDate),
		Status:        string(inv.Status),
		CreatedBy:     refID(inv.CreatedBy),
		CreatedAt:     storedTime(inv.CreatedAt),
		UpdatedAt:     storedTime(inv.UpdatedAt),
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newInvoiceDocument(inv)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc invoiceDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns invoices ordered by due date, earliest first.
func (r *InvoiceRepository) List(ctx context.Context, f ports.InvoiceFilter) ([]*domain.Invoice, error) {
	filter := bson.M{}
	if f.ClientID != "" {
		oid, ok := objectID(f.ClientID)
		if !ok {
			return []*domain.Invoice{}, nil
		}
		filter["client_id"] = oid
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var docs []invoiceDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}

	invoices := make([]*domain.Invoice, 0, len(docs))
	for i := range docs {
		invoices = append(invoices, docs[i].toDomain())
	}
	return invoices, nil
}

// Update writes the editable fields. amount_paid is owned by PaymentRepository.
func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	oid, ok := objectID(inv.ID)
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"invoice_number": inv.InvoiceNumber,
		"client_id":      refID(inv.ClientID),
		"amount":         inv.Amount,
		"due_date":       storedTime(inv.DueDate),
		"status":         string(inv.Status),
		"updated_at":     storedTime(inv.UpdatedAt),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc invoiceDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) CountByClient(ctx context.Context, clientID string) (int64, error) {
	oid, ok := objectID(clientID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"client_id": oid})
}

// EnsureIndexes creates the unique invoice number index and the lookup
// indexes used by listings and reports.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "invoice_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

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

type RecoveryActionRepository struct {
	coll *mongo.Collection
}

func NewRecoveryActionRepository(db *mongo.Database) *RecoveryActionRepository {
	return &RecoveryActionRepository{coll: db.Collection(collectionRecoveryActions)}
}

type recoveryActionDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	InvoiceID   primitive.ObjectID `bson:"invoice_id"`
	ClientID    primitive.ObjectID `bson:"client_id"`
	Type        string             `bson:"type"`
	Note        string             `bson:"note,omitempty"`
	Result      string             `bson:"result,omitempty"`
	ActionDate  time.Time          `bson:"action_date"`
	PerformedBy primitive.ObjectID `bson:"performed_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *recoveryActionDocument) toDomain() *domain.RecoveryAction {
	return &domain.RecoveryAction{
		ID:          d.ID.Hex(),
		InvoiceID:   hexID(d.InvoiceID),
		ClientID:    hexID(d.ClientID),
		Type:        domain.RecoveryActionType(d.Type),
		Note:        d.Note,
		Result:      d.Result,
		ActionDate:  d.ActionDate.UTC(),
		PerformedBy: hexID(d.PerformedBy),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// filterFor builds the query for f. ok is false when an id in f cannot
// match any stored document.
func filterFor(f ports.RecoveryActionFilter) (bson.M, bool) {
	filter := bson.M{}
	if f.ClientID != "" {
		oid, ok := objectID(f.ClientID)
		if !ok {
			return nil, false
		}
		filter["client_id"] = oid
	}
	if f.InvoiceID != "" {
		oid, ok := objectID(f.InvoiceID)
		if !ok {
			return nil, false
		}
		filter["invoice_id"] = oid
	}
	return filter, true
}

func newRecoveryActionDocument(a *domain.RecoveryAction) recoveryActionDocument {
	return recoveryActionDocument{
		InvoiceID:   refID(a.InvoiceID),
		ClientID:    refID(a.ClientID),
		Type:        string(a.Type),
		Note:        a.Note,
		Result:      a.Result,
		ActionDate:  storedTime(a.ActionDate),
		PerformedBy: refID(a.PerformedBy),
		CreatedAt:   storedTime(a.CreatedAt),
		UpdatedAt:   storedTime(a.UpdatedAt),
	}
}

func (r *RecoveryActionRepository) Create(ctx context.Context, a *domain.RecoveryAction) (*domain.RecoveryAction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newRecoveryActionDocument(a)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert recovery action: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RecoveryActionRepository) FindByID(ctx context.Context, id string) (*domain.RecoveryAction, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRecoveryActionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc recoveryActionDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecoveryActionNotFound
		}
		return nil, fmt.Errorf("find recovery action: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns matching actions, most recent first.
func (r *RecoveryActionRepository) List(ctx context.Context, f ports.RecoveryActionFilter) ([]*domain.RecoveryAction, error) {
	filter, ok := filterFor(f)
	if !ok {
		return []*domain.RecoveryAction{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "action_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list recovery actions: %w", err)
	}
	var docs []recoveryActionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode recovery actions: %w", err)
	}

	actions := make([]*domain.RecoveryAction, 0, len(docs))
	for i := range docs {
		actions = append(actions, docs[i].toDomain())
	}
	return actions, nil
}

func (r *RecoveryActionRepository) Update(ctx context.Context, a *domain.RecoveryAction) (*domain.RecoveryAction, error) {
	oid, ok := objectID(a.ID)
	if !ok {
		return nil, domain.ErrRecoveryActionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"type":        string(a.Type),
		"note":        a.Note,
		"result":      a.Result,
		"action_date": storedTime(a.ActionDate),
		"updated_at":  storedTime(a.UpdatedAt),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc recoveryActionDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecoveryActionNotFound
		}
		return nil, fmt.Errorf("update recovery action: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RecoveryActionRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrRecoveryActionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete recovery action: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecoveryActionNotFound
	}
	return nil
}

func (r *RecoveryActionRepository) Count(ctx context.Context, f ports.RecoveryActionFilter) (int64, error) {
	filter, ok := filterFor(f)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, filter)
}

func (r *RecoveryActionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "action_date", Value: -1}}},
		{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "action_date", Value: -1}}},
		{Keys: bson.D{{Key: "performed_by", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

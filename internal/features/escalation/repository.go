package escalation

import (
	"context"
	"time"

	"go-carehub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EscalationRuleRepository interface {
	Create(ctx context.Context, r *EscalationRule) error
	GetByID(ctx context.Context, id string) (*EscalationRule, error)
	List(ctx context.Context) ([]EscalationRule, error)
	FindActive(ctx context.Context) ([]EscalationRule, error)
	Update(ctx context.Context, r *EscalationRule) error
	Delete(ctx context.Context, id string) error
}

type EventRepository interface {
	Create(ctx context.Context, evt *MessageEvent) error
	// FindUnresponded returns events newer than the cutoff that have no
	// recorded response; these are re-checked for threshold rules
	FindUnresponded(ctx context.Context, cutoff time.Time) ([]MessageEvent, error)
	MarkResponded(ctx context.Context, id string) error
}

type EscalationRuleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewEscalationRuleRepository(mongodb *database.MongodbDB) EscalationRuleRepository {
	return &EscalationRuleRepositoryImpl{
		Collection: mongodb.DB.Collection("escalation_rules"),
	}
}

func (r *EscalationRuleRepositoryImpl) Create(ctx context.Context, rule *EscalationRule) error {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, rule)
	return err
}

func (r *EscalationRuleRepositoryImpl) GetByID(ctx context.Context, id string) (*EscalationRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var rule EscalationRule
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *EscalationRuleRepositoryImpl) List(ctx context.Context) ([]EscalationRule, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var rules []EscalationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *EscalationRuleRepositoryImpl) FindActive(ctx context.Context) ([]EscalationRule, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var rules []EscalationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *EscalationRuleRepositoryImpl) Update(ctx context.Context, rule *EscalationRule) error {
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": rule.ID}, bson.M{"$set": rule})
	return err
}

func (r *EscalationRuleRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

type EventRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewEventRepository(mongodb *database.MongodbDB) EventRepository {
	return &EventRepositoryImpl{
		Collection: mongodb.DB.Collection("message_events"),
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, evt *MessageEvent) error {
	evt.ID = primitive.NewObjectID()
	evt.CreatedAt = time.Now()
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = evt.CreatedAt
	}
	_, err := r.Collection.InsertOne(ctx, evt)
	return err
}

func (r *EventRepositoryImpl) FindUnresponded(ctx context.Context, cutoff time.Time) ([]MessageEvent, error) {
	filter := bson.M{
		"responded_at": nil,
		"occurred_at":  bson.M{"$gte": cutoff},
	}
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}}).SetLimit(500)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var events []MessageEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepositoryImpl) MarkResponded(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "responded_at": nil},
		bson.M{"$set": bson.M{"responded_at": now}},
	)
	return err
}

package rule

import (
	"context"
	"time"

	"go-carehub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RuleRepository interface {
	Create(ctx context.Context, r *AutomationRule) error
	GetByID(ctx context.Context, id string) (*AutomationRule, error)
	List(ctx context.Context) ([]AutomationRule, error)
	FindActive(ctx context.Context) ([]AutomationRule, error)
	Update(ctx context.Context, r *AutomationRule) error
	Delete(ctx context.Context, id string) error
	Enable(ctx context.Context, id string, active bool) error
	// UpdateLastExecuted advances the last-fired timestamp; it never moves
	// it backwards
	UpdateLastExecuted(ctx context.Context, id primitive.ObjectID, ts time.Time) error
}

type RuleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRuleRepository(mongodb *database.MongodbDB) RuleRepository {
	return &RuleRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_rules"),
	}
}

func (r *RuleRepositoryImpl) Create(ctx context.Context, rule *AutomationRule) error {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, rule)
	return err
}

func (r *RuleRepositoryImpl) GetByID(ctx context.Context, id string) (*AutomationRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var rule AutomationRule
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepositoryImpl) List(ctx context.Context) ([]AutomationRule, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var rules []AutomationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *RuleRepositoryImpl) FindActive(ctx context.Context) ([]AutomationRule, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var rules []AutomationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *RuleRepositoryImpl) Update(ctx context.Context, rule *AutomationRule) error {
	rule.UpdatedAt = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": rule.ID}, bson.M{"$set": authoringFields(rule)})
	return err
}

// authoringFields builds the update document for an API rule edit.
// last_executed is excluded: only UpdateLastExecuted may move it, and only
// forwards, so an edit can never make a consumed slot eligible again.
func authoringFields(rule *AutomationRule) bson.M {
	return bson.M{
		"name":       rule.Name,
		"is_active":  rule.Active,
		"trigger":    rule.Trigger,
		"action":     rule.Action,
		"updated_at": rule.UpdatedAt,
	}
}

func (r *RuleRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *RuleRepositoryImpl) Enable(ctx context.Context, id string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}})
	return err
}

func (r *RuleRepositoryImpl) UpdateLastExecuted(ctx context.Context, id primitive.ObjectID, ts time.Time) error {
	filter := bson.M{
		"_id": id,
		"$or": []bson.M{
			{"last_executed": nil},
			{"last_executed": bson.M{"$lt": ts}},
		},
	}
	_, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"last_executed": ts}})
	return err
}

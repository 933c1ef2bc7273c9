package alert

import (
	"context"
	"time"

	"go-carehub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AlertRepository interface {
	Create(ctx context.Context, a *Alert) error
	List(ctx context.Context, category string, unacknowledgedOnly bool) ([]Alert, error)
	Acknowledge(ctx context.Context, id string) error
}

type AlertRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAlertRepository(mongodb *database.MongodbDB) AlertRepository {
	return &AlertRepositoryImpl{
		Collection: mongodb.DB.Collection("alerts"),
	}
}

func (r *AlertRepositoryImpl) Create(ctx context.Context, a *Alert) error {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, a)
	return err
}

func (r *AlertRepositoryImpl) List(ctx context.Context, category string, unacknowledgedOnly bool) ([]Alert, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if unacknowledgedOnly {
		filter["acknowledged"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(200)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var alerts []Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *AlertRepositoryImpl) Acknowledge(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"acknowledged": true, "acknowledged_at": now},
	})
	return err
}

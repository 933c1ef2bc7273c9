package directory

import (
	"context"
	"time"

	"go-carehub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AdminRepository interface {
	FindActive(ctx context.Context) ([]Admin, error)
	GetByID(ctx context.Context, id string) (*Admin, error)
}

type SubjectRepository interface {
	FindActive(ctx context.Context) ([]Subject, error)
	// FindInactiveSince returns active subjects whose last activity is
	// older than the cutoff (or who never had any)
	FindInactiveSince(ctx context.Context, cutoff time.Time) ([]Subject, error)
	GetByID(ctx context.Context, id string) (*Subject, error)
}

type AdminRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAdminRepository(mongodb *database.MongodbDB) AdminRepository {
	return &AdminRepositoryImpl{
		Collection: mongodb.DB.Collection("admins"),
	}
}

func (r *AdminRepositoryImpl) FindActive(ctx context.Context) ([]Admin, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var admins []Admin
	if err = cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminRepositoryImpl) GetByID(ctx context.Context, id string) (*Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var admin Admin
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

type SubjectRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSubjectRepository(mongodb *database.MongodbDB) SubjectRepository {
	return &SubjectRepositoryImpl{
		Collection: mongodb.DB.Collection("subjects"),
	}
}

func (r *SubjectRepositoryImpl) FindActive(ctx context.Context) ([]Subject, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var subjects []Subject
	if err = cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *SubjectRepositoryImpl) FindInactiveSince(ctx context.Context, cutoff time.Time) ([]Subject, error) {
	filter := bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"last_activity_at": bson.M{"$lt": cutoff}},
			{"last_activity_at": nil},
		},
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var subjects []Subject
	if err = cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *SubjectRepositoryImpl) GetByID(ctx context.Context, id string) (*Subject, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var subject Subject
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &subject, nil
}

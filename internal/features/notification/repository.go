package notification

import (
	"context"
	"sort"
	"time"

	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QueueRepository interface {
	Insert(ctx context.Context, item *QueueItem) error
	// ListDue returns pending items whose scheduled_for has passed,
	// ordered by priority rank then creation time
	ListDue(ctx context.Context, now time.Time) ([]QueueItem, error)
	List(ctx context.Context, status Status, recipientID string) ([]QueueItem, error)
	// MarkSent, MarkFailed and MarkCancelled only match pending documents,
	// so a terminal status can never be overwritten
	MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error
	MarkCancelled(ctx context.Context, id primitive.ObjectID, reason string) error
}

type PreferenceRepository interface {
	Get(ctx context.Context, userID string, userType common_models.UserType) (*Preferences, error)
	Upsert(ctx context.Context, prefs *Preferences) error
}

type InAppRepository interface {
	Create(ctx context.Context, n *InAppNotification) error
	GetByUserID(ctx context.Context, userID string, page, limit int64) ([]InAppNotification, int64, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type QueueRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewQueueRepository(mongodb *database.MongodbDB) QueueRepository {
	return &QueueRepositoryImpl{
		Collection: mongodb.DB.Collection("notification_queue"),
	}
}

func (r *QueueRepositoryImpl) Insert(ctx context.Context, item *QueueItem) error {
	item.ID = primitive.NewObjectID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.Status == "" {
		item.Status = StatusPending
	}
	_, err := r.Collection.InsertOne(ctx, item)
	return err
}

func (r *QueueRepositoryImpl) ListDue(ctx context.Context, now time.Time) ([]QueueItem, error) {
	filter := bson.M{
		"status":        StatusPending,
		"scheduled_for": bson.M{"$lte": now},
	}
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var items []QueueItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	SortForDispatch(items)
	return items, nil
}

// SortForDispatch orders items by priority rank (urgent first) and FIFO
// within a priority band.
func SortForDispatch(items []QueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ri := common_models.PriorityRank(items[i].Priority)
		rj := common_models.PriorityRank(items[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func (r *QueueRepositoryImpl) List(ctx context.Context, status Status, recipientID string) ([]QueueItem, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if recipientID != "" {
		filter["recipient_id"] = recipientID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(200)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var items []QueueItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *QueueRepositoryImpl) MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": StatusPending},
		bson.M{"$set": bson.M{"status": StatusSent, "sent_at": sentAt}},
	)
	return err
}

func (r *QueueRepositoryImpl) MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": StatusPending},
		bson.M{"$set": bson.M{"status": StatusFailed, "error": errMsg}},
	)
	return err
}

func (r *QueueRepositoryImpl) MarkCancelled(ctx context.Context, id primitive.ObjectID, reason string) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": StatusPending},
		bson.M{"$set": bson.M{"status": StatusCancelled, "error": reason}},
	)
	return err
}

type PreferenceRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPreferenceRepository(mongodb *database.MongodbDB) PreferenceRepository {
	return &PreferenceRepositoryImpl{
		Collection: mongodb.DB.Collection("notification_preferences"),
	}
}

func (r *PreferenceRepositoryImpl) Get(ctx context.Context, userID string, userType common_models.UserType) (*Preferences, error) {
	var prefs Preferences
	err := r.Collection.FindOne(ctx, bson.M{"user_id": userID, "user_type": userType}).Decode(&prefs)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &prefs, nil
}

func (r *PreferenceRepositoryImpl) Upsert(ctx context.Context, prefs *Preferences) error {
	prefs.UpdatedAt = time.Now()
	filter := bson.M{"user_id": prefs.UserID, "user_type": prefs.UserType}
	update := bson.M{"$set": bson.M{
		"user_id":      prefs.UserID,
		"user_type":    prefs.UserType,
		"browser":      prefs.Browser,
		"email":        prefs.Email,
		"sms":          prefs.SMS,
		"push":         prefs.Push,
		"daily_digest": prefs.DailyDigest,
		"urgent_only":  prefs.UrgentOnly,
		"quiet_hours":  prefs.QuietHours,
		"updated_at":   prefs.UpdatedAt,
	}}
	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

type InAppRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewInAppRepository(mongodb *database.MongodbDB) InAppRepository {
	return &InAppRepositoryImpl{
		Collection: mongodb.DB.Collection("inapp_notifications"),
	}
}

func (r *InAppRepositoryImpl) Create(ctx context.Context, n *InAppNotification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, n)
	return err
}

func (r *InAppRepositoryImpl) GetByUserID(ctx context.Context, userID string, page, limit int64) ([]InAppNotification, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)
	var notifications []InAppNotification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *InAppRepositoryImpl) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

func (r *InAppRepositoryImpl) MarkAsRead(ctx context.Context, id primitive.ObjectID, userID string) error {
	now := time.Now()
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	return err
}

func (r *InAppRepositoryImpl) MarkAllAsRead(ctx context.Context, userID string) error {
	now := time.Now()
	_, err := r.Collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	return err
}

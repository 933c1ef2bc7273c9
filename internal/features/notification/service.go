package notification

import (
	"context"
	"errors"
	"time"

	common_models "go-carehub/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	Enqueuer

	ListQueue(ctx context.Context, status Status, recipientID string) ([]QueueItem, error)
	GetPreferences(ctx context.Context, userID string, userType common_models.UserType) (*Preferences, error)
	SavePreferences(ctx context.Context, prefs *Preferences) error

	GetUserNotifications(ctx context.Context, userID string, page, limit int64) ([]InAppNotification, int64, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type NotificationServiceImpl struct {
	Queue QueueRepository
	Prefs PreferenceRepository
	InApp InAppRepository
}

func NewNotificationService(queue QueueRepository, prefs PreferenceRepository, inApp InAppRepository) NotificationService {
	return &NotificationServiceImpl{
		Queue: queue,
		Prefs: prefs,
		InApp: inApp,
	}
}

// Enqueue inserts a pending queue item, defaulting scheduled_for to now
func (s *NotificationServiceImpl) Enqueue(ctx context.Context, item *QueueItem) error {
	if item.RecipientID == "" {
		return errors.New("recipient id is required")
	}
	if item.ScheduledFor.IsZero() {
		item.ScheduledFor = time.Now()
	}
	item.Status = StatusPending
	return s.Queue.Insert(ctx, item)
}

func (s *NotificationServiceImpl) ListQueue(ctx context.Context, status Status, recipientID string) ([]QueueItem, error) {
	return s.Queue.List(ctx, status, recipientID)
}

// GetPreferences returns the stored record, or deterministic defaults when
// none exists. The defaults are not persisted.
func (s *NotificationServiceImpl) GetPreferences(ctx context.Context, userID string, userType common_models.UserType) (*Preferences, error) {
	prefs, err := s.Prefs.Get(ctx, userID, userType)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return DefaultPreferences(userID, userType), nil
	}
	return prefs, nil
}

func (s *NotificationServiceImpl) SavePreferences(ctx context.Context, prefs *Preferences) error {
	if prefs.UserID == "" {
		return errors.New("user id is required")
	}
	return s.Prefs.Upsert(ctx, prefs)
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, userID string, page, limit int64) ([]InAppNotification, int64, error) {
	return s.InApp.GetByUserID(ctx, userID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.InApp.GetUnreadCount(ctx, userID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.InApp.MarkAsRead(ctx, oid, userID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.InApp.MarkAllAsRead(ctx, userID)
}

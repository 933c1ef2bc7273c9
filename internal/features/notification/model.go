package notification

import (
	"context"
	"time"

	common_models "go-carehub/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether a status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed || s == StatusCancelled
}

// QueueItem is one scheduled, channel-specific delivery attempt
type QueueItem struct {
	ID            primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	RecipientID   string                 `json:"recipient_id" bson:"recipient_id"`
	RecipientType common_models.UserType `json:"recipient_type" bson:"recipient_type"`
	Channel       common_models.Channel  `json:"channel" bson:"channel"`
	Priority      common_models.Priority `json:"priority" bson:"priority"`
	Title         string                 `json:"title" bson:"title"`
	Message       string                 `json:"message" bson:"message"`
	ScheduledFor  time.Time              `json:"scheduled_for" bson:"scheduled_for"`
	Status        Status                 `json:"status" bson:"status"`
	CreatedAt     time.Time              `json:"created_at" bson:"created_at"`
	SentAt        *time.Time             `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	Error         string                 `json:"error,omitempty" bson:"error,omitempty"`
}

type QuietHours struct {
	Enabled   bool   `json:"enabled" bson:"enabled"`
	StartTime string `json:"start_time" bson:"start_time"`
	EndTime   string `json:"end_time" bson:"end_time"`
}

// Preferences holds a recipient's delivery settings
type Preferences struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID      string                 `json:"user_id" bson:"user_id"`
	UserType    common_models.UserType `json:"user_type" bson:"user_type"`
	Browser     bool                   `json:"browser" bson:"browser"`
	Email       bool                   `json:"email" bson:"email"`
	SMS         bool                   `json:"sms" bson:"sms"`
	Push        bool                   `json:"push" bson:"push"`
	DailyDigest bool                   `json:"daily_digest" bson:"daily_digest"`
	UrgentOnly  bool                   `json:"urgent_only" bson:"urgent_only"`
	QuietHours  QuietHours             `json:"quiet_hours" bson:"quiet_hours"`
	UpdatedAt   time.Time              `json:"updated_at" bson:"updated_at"`
}

// DefaultPreferences synthesizes the settings used when a recipient has no
// stored record: every channel but SMS on, admins digest-on. Deterministic
// and side-effect-free.
func DefaultPreferences(userID string, userType common_models.UserType) *Preferences {
	return &Preferences{
		UserID:      userID,
		UserType:    userType,
		Browser:     true,
		Email:       true,
		SMS:         false,
		Push:        true,
		DailyDigest: userType == common_models.UserTypeAdmin,
		UrgentOnly:  false,
		QuietHours: QuietHours{
			Enabled:   false,
			StartTime: "22:00",
			EndTime:   "08:00",
		},
	}
}

// ChannelEnabled reports whether the preferences allow the given channel.
func (p *Preferences) ChannelEnabled(ch common_models.Channel) bool {
	switch ch {
	case common_models.ChannelBrowser:
		return p.Browser
	case common_models.ChannelEmail:
		return p.Email
	case common_models.ChannelSMS:
		return p.SMS
	case common_models.ChannelPush:
		return p.Push
	default:
		return false
	}
}

// InAppNotification is the console inbox record written by the browser
// channel sender
type InAppNotification struct {
	ID        primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID    string                 `json:"user_id" bson:"user_id"`
	Title     string                 `json:"title" bson:"title"`
	Message   string                 `json:"message" bson:"message"`
	Priority  common_models.Priority `json:"priority" bson:"priority"`
	IsRead    bool                   `json:"is_read" bson:"is_read"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
	ReadAt    *time.Time             `json:"read_at,omitempty" bson:"read_at,omitempty"`
}

// SendResult is the outcome of one channel delivery attempt. Ordinary
// failures come back as Success=false with Error set, never as a Go error.
type SendResult struct {
	Success bool
	Error   string
}

// Sender delivers one queue item over its channel
type Sender interface {
	Send(ctx context.Context, item *QueueItem) SendResult
}

// SenderMap binds each channel to its sender implementation
type SenderMap map[common_models.Channel]Sender

// Enqueuer is the write side of the queue used by the rule executor and
// the escalation engine
type Enqueuer interface {
	Enqueue(ctx context.Context, item *QueueItem) error
}

package alert

import (
	"time"

	common_models "go-carehub/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AlertCategory string

const (
	CategoryAlert AlertCategory = "alert"
	CategoryTask  AlertCategory = "task"
)

// Alert is a standalone console record produced by create-alert and
// assign-task rule actions. It never enters the delivery queue.
type Alert struct {
	ID             primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Category       AlertCategory          `json:"category" bson:"category"`
	RuleID         string                 `json:"rule_id" bson:"rule_id"`
	SubjectID      string                 `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	Title          string                 `json:"title" bson:"title"`
	Message        string                 `json:"message" bson:"message"`
	Priority       common_models.Priority `json:"priority" bson:"priority"`
	Acknowledged   bool                   `json:"acknowledged" bson:"acknowledged"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty" bson:"acknowledged_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at" bson:"created_at"`
}

package escalation

import (
	"time"

	common_models "go-carehub/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EscalationTrigger gates a rule on a message event. Empty sets match
// everything; ResponseTimeThreshold (minutes) can only be satisfied on a
// re-check pass after the event has aged past it.
type EscalationTrigger struct {
	MessageTypes          []string                 `json:"message_types,omitempty" bson:"message_types,omitempty"`
	Keywords              []string                 `json:"keywords,omitempty" bson:"keywords,omitempty"`
	Priorities            []common_models.Priority `json:"priorities,omitempty" bson:"priorities,omitempty"`
	ResponseTimeThreshold *int                     `json:"response_time_threshold,omitempty" bson:"response_time_threshold,omitempty"`
}

// EscalationStep is one delayed follow-up in an ordered chain. Delay is in
// minutes from the triggering event, not from the previous step.
type EscalationStep struct {
	StepNumber int      `json:"step_number" bson:"step_number"`
	Delay      int      `json:"delay" bson:"delay"`
	Action     string   `json:"action" bson:"action"`
	Recipients []string `json:"recipients" bson:"recipients"`
	Message    string   `json:"message" bson:"message"`
}

// EscalationRule is immutable once authored as far as the engine is
// concerned: steps are only read, never rewritten, and no fired-for flag
// exists on the rule.
type EscalationRule struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Trigger   EscalationTrigger  `json:"trigger" bson:"trigger"`
	Steps     []EscalationStep   `json:"escalation_steps" bson:"escalation_steps"`
	Active    bool               `json:"is_active" bson:"is_active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// MessageEvent is a qualifying inbound event (typically a sent or received
// message). RespondedAt stops threshold-based re-checks once someone has
// replied.
type MessageEvent struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Type        string                 `json:"type" bson:"type"`
	Content     string                 `json:"content" bson:"content"`
	Priority    common_models.Priority `json:"priority" bson:"priority"`
	SubjectID   string                 `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at" bson:"occurred_at"`
	RespondedAt *time.Time             `json:"responded_at,omitempty" bson:"responded_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
}

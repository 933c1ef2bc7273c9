package rule

import (
	"time"

	common_models "go-carehub/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TriggerType string

const (
	TriggerOnboarding TriggerType = "onboarding-event"
	TriggerReminder   TriggerType = "reminder-schedule"
	TriggerCheckin    TriggerType = "periodic-checkin"
	TriggerMilestone  TriggerType = "milestone-event"
	TriggerSafety     TriggerType = "safety-event"
	TriggerInactivity TriggerType = "inactivity-event"
)

type ActionType string

const (
	ActionSendMessage ActionType = "send-message"
	ActionSendEmail   ActionType = "send-email"
	ActionCreateAlert ActionType = "create-alert"
	ActionAssignTask  ActionType = "assign-task"
	ActionRunScript   ActionType = "run-script"
)

type RecipientType string

const (
	RecipientSingleSubject RecipientType = "single-subject"
	RecipientAllAdmins     RecipientType = "all-admins"
	RecipientExplicitList  RecipientType = "explicit-list"
)

type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Schedule describes when a time-based trigger fires. Time is wall-clock
// "HH:MM"; DaysOfWeek applies to weekly frequency only (0=Sunday).
type Schedule struct {
	Frequency  Frequency `json:"frequency" bson:"frequency"`
	Time       string    `json:"time" bson:"time"`
	DaysOfWeek []int     `json:"days_of_week,omitempty" bson:"days_of_week,omitempty"`
}

type Recipients struct {
	Type RecipientType `json:"type" bson:"type"`
	IDs  []string      `json:"ids,omitempty" bson:"ids,omitempty"`
}

type Trigger struct {
	Type       TriggerType            `json:"type" bson:"type"`
	Conditions map[string]interface{} `json:"conditions,omitempty" bson:"conditions,omitempty"`
	Schedule   *Schedule              `json:"schedule,omitempty" bson:"schedule,omitempty"`
}

type Action struct {
	Type          ActionType             `json:"type" bson:"type"`
	TemplateID    string                 `json:"template_id,omitempty" bson:"template_id,omitempty"`
	CustomMessage string                 `json:"custom_message,omitempty" bson:"custom_message,omitempty"`
	Script        string                 `json:"script,omitempty" bson:"script,omitempty"`
	Priority      common_models.Priority `json:"priority" bson:"priority"`
	Recipients    Recipients             `json:"recipients" bson:"recipients"`
}

// AutomationRule binds a trigger to an action. Rules are deactivated, never
// deleted, by the engine itself; LastExecuted only advances forward.
type AutomationRule struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Active       bool               `json:"is_active" bson:"is_active"`
	LastExecuted *time.Time         `json:"last_executed,omitempty" bson:"last_executed,omitempty"`
	Trigger      Trigger            `json:"trigger" bson:"trigger"`
	Action       Action             `json:"action" bson:"action"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

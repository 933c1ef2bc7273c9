package directory

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a console operator who can receive escalations and alerts
type Admin struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Active    bool               `json:"is_active" bson:"is_active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Subject is a care-program participant targeted by reminder and
// check-in rules
type Subject struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	ProgramType    string             `json:"program_type" bson:"program_type"`
	CurrentWeek    int                `json:"current_week" bson:"current_week"`
	StartWeight    float64            `json:"start_weight" bson:"start_weight"`
	CurrentWeight  float64            `json:"current_weight" bson:"current_weight"`
	Active         bool               `json:"is_active" bson:"is_active"`
	LastActivityAt *time.Time         `json:"last_activity_at,omitempty" bson:"last_activity_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

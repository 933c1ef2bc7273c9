package template

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageTemplate is an authored message body with {{variable}} placeholders
type MessageTemplate struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Category  string             `json:"category" bson:"category"`
	Content   string             `json:"content" bson:"content"`
	Variables []string           `json:"variables" bson:"variables"`
	Active    bool               `json:"is_active" bson:"is_active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

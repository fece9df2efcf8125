package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is an immutable audit record, created only after signature
// verification succeeded.
type Payment struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PaymentID      string             `json:"payment_id" bson:"payment_id"`
	SubscriptionID string             `json:"subscription_id" bson:"subscription_id"`
	Signature      string             `json:"signature" bson:"signature"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

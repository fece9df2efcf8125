package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coursebay/lms-backend/pkg/media"
)

// Roles a user can hold.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// SubscriptionStatusActive is the processor status that unlocks subscriber routes.
const SubscriptionStatusActive = "active"

// Subscription caches the payment processor's subscription state on the user
// so authorization checks do not need a remote call.
type Subscription struct {
	ID     string `json:"id,omitempty" bson:"id,omitempty"`
	Status string `json:"status,omitempty" bson:"status,omitempty"`
}

// User is the identity record. The password hash and the reset-token fields
// never serialize into API responses.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName     string             `json:"fullname" bson:"fullname"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password"`
	Avatar       media.Asset        `json:"avatar" bson:"avatar"`
	Role         string             `json:"role" bson:"role"`
	Subscription Subscription       `json:"subscription" bson:"subscription"`

	ForgotPasswordToken  string    `json:"-" bson:"forgot_password_token,omitempty"`
	ForgotPasswordExpiry time.Time `json:"-" bson:"forgot_password_expiry,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsSubscriber reports whether the user may access subscriber-gated routes.
func (u *User) IsSubscriber() bool {
	return u.Role == RoleAdmin || u.Subscription.Status == SubscriptionStatusActive
}

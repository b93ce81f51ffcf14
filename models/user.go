package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the users collection
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Email    string             `json:"email" bson:"email"`
	Name     string             `json:"name,omitempty" bson:"name,omitempty"`
	Password string             `json:"-" bson:"password"`
	Created  time.Time          `json:"created" bson:"created"`
	Updated  time.Time          `json:"updated" bson:"updated"`
}

// PasswordReset stores a hashed, single-use password reset token
type PasswordReset struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	TokenHash string             `json:"-" bson:"tokenHash"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expiresAt"`
	UsedAt    *time.Time         `json:"usedAt,omitempty" bson:"usedAt,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

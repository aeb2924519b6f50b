package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id" json:"-"`
	Name         *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Password     *string            `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	Email        *string            `bson:"email" json:"email" validate:"email,required"`
	Phone        *string            `bson:"phone" json:"phone"`
	UserRole     *string            `bson:"user_role" json:"user_role" validate:"required,eq=ADMIN|eq=STAFF"`
	Token        *string            `bson:"token" json:"token"`
	RefreshToken *string            `bson:"refresh_token" json:"refresh_token"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	UserID       string             `bson:"user_id" json:"user_id"`
}

// LoginRequest is the staff login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

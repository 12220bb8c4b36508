package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types
const (
	UserTypeUser        = "user"
	UserTypeSDR         = "sdr"
	UserTypeAgencyOwner = "agency_owner"
	UserTypeAdmin       = "admin"
)

type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"password,omitempty" bson:"password"`
	FullName  string             `json:"fullName" bson:"fullName"`
	UserType  string             `json:"userType" bson:"userType"` // "user", "sdr", "agency_owner", "admin"
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	FCMToken  string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// IsValidUserType reports whether t is one of the assignable user types.
func IsValidUserType(t string) bool {
	switch t {
	case UserTypeUser, UserTypeSDR, UserTypeAgencyOwner, UserTypeAdmin:
		return true
	}
	return false
}

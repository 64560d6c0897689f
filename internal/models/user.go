// Package models defines data structures for the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the access level of a user account.
type Role string

const (
	// RoleAdmin receives booking notifications and has full access.
	RoleAdmin Role = "Admin"
	// RoleFarmer is the default role for renters.
	RoleFarmer Role = "Farmer"
	// RoleEquipmentOwner is granted when a user lists their first equipment.
	RoleEquipmentOwner Role = "EquipmentOwner"
)

// ViewedEquipment is one entry in a user's recently-viewed list.
type ViewedEquipment struct {
	EquipmentID primitive.ObjectID `json:"equipmentId" bson:"equipmentId"`
	ViewedAt    time.Time          `json:"viewedAt" bson:"viewedAt"`
}

// User represents a user in the system.
type User struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	DisplayName     string               `json:"displayName" bson:"displayName" example:"Ramesh Patel"`
	Username        string               `json:"username" bson:"username" example:"ramesh_p"`
	Email           string               `json:"email" bson:"email" example:"ramesh@example.com"`
	Password        string               `json:"-" bson:"password"` // "-" = never include in JSON response
	Phone           string               `json:"phone" bson:"phone" example:"+919876543210"`
	Role            Role                 `json:"role" bson:"role" example:"Farmer"`
	Avatar          string               `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CoverImage      string               `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Favorites       []primitive.ObjectID `json:"favorites" bson:"favorites"`
	RecentlyViewed  []ViewedEquipment    `json:"recentlyViewedEquipment" bson:"recentlyViewedEquipment"`
	OAuthProvider   string               `json:"-" bson:"oauthProvider,omitempty"`
	OAuthSubject    string               `json:"-" bson:"oauthSubject,omitempty"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PublicProfile is the trimmed owner projection exposed in listings.
// No contact info is leaked here.
type PublicProfile struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	Avatar      string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// RegisterRequest is the payload for creating a user account.
type RegisterRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=2,max=100" example:"Ramesh Patel"`
	Username    string `json:"username" binding:"required,min=3,max=30,alphanum" example:"ramesh1"`
	Email       string `json:"email" binding:"required,email" example:"ramesh@example.com"`
	Password    string `json:"password" binding:"required,min=6" example:"secret123"`
	Phone       string `json:"phone" binding:"required,min=10,max=15" example:"+919876543210"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"ramesh1"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UpdateProfileRequest is the payload for updating profile fields.
// Media fields are handled by dedicated endpoints.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,min=2,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,min=10,max=15"`
}

// ChangePasswordRequest is the payload for an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// AuthResponse is the response after successful login, registration or refresh.
type AuthResponse struct {
	AccessToken  string `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIs..."`
	RefreshToken string `json:"refreshToken" example:"st_8a7b3c9d..."`
	ExpiresIn    int    `json:"expiresIn" example:"900"`
	User         User   `json:"user"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is one active refresh session for a user. Users hold a set of
// sessions, one per device, each revocable by ID.
type Session struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	// SessionID is the public identifier embedded in the opaque refresh token.
	SessionID string             `json:"sessionId" bson:"sessionId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	// TokenHash is the SHA-256 of the currently valid refresh token.
	TokenHash string `json:"-" bson:"tokenHash"`
	// PreviousTokenHash enables one-token-lookback reuse detection after rotation.
	PreviousTokenHash string    `json:"-" bson:"previousTokenHash,omitempty"`
	IssuedAt          time.Time `json:"issuedAt" bson:"issuedAt"`
	ExpiresAt         time.Time `json:"expiresAt" bson:"expiresAt"`
}

// RefreshRequest is the payload for refreshing an access token when the
// refresh token is not supplied via cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"omitempty"`
}

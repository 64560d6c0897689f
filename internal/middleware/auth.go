// Package middleware provides Gin middleware for the API.
package middleware

import (
	"errors"
	"strings"

	"krushak/pkg/auth"
	"krushak/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AccessTokenCookie is where browser clients carry the access token.
const AccessTokenCookie = "accessToken"

// Auth validates the access token and stores the caller's identity in the
// request context. The token comes from the httpOnly cookie when present,
// otherwise from the Authorization header.
//
// An expired token gets the exact message "jwt expired" so clients can tell
// it apart from other failures and run their refresh flow.
func Auth(tokenManager auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "Unauthorized user request")
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				response.Unauthorized(c, "jwt expired")
			} else {
				response.Unauthorized(c, "Unauthorized user request")
			}
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Unauthorized user request")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token is present
// but lets anonymous requests through.
func OptionalAuth(tokenManager auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokenManager.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		if userID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			c.Set(ContextUserID, userID)
			c.Set(ContextRole, claims.Role)
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// UserID returns the authenticated user's ID from the request context.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}

// OptionalUserID returns a pointer to the caller's ID, or nil when anonymous.
func OptionalUserID(c *gin.Context) *primitive.ObjectID {
	if id, ok := UserID(c); ok {
		return &id
	}
	return nil
}

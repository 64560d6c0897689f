// Package cache provides caching functionality using Redis.
package cache

import (
	"context"
	"fmt"
	"time"
)

// ResetTokenStore manages single-use password reset tokens in Redis.
type ResetTokenStore interface {
	// Create stores a reset token hash for a user with TTL.
	Create(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	// Consume retrieves the user ID for a token hash and deletes it in the
	// same call, so a reset token can only be used once. Returns "" when the
	// token is unknown or expired.
	Consume(ctx context.Context, tokenHash string) (string, error)
}

type resetTokenStore struct {
	cache Cache
}

// NewResetTokenStore creates a new ResetTokenStore.
func NewResetTokenStore(cache Cache) ResetTokenStore {
	return &resetTokenStore{cache: cache}
}

func resetTokenKey(tokenHash string) string {
	return fmt.Sprintf("reset_token:%s", tokenHash)
}

// Create stores a reset token hash for a user.
func (s *resetTokenStore) Create(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	return s.cache.Set(ctx, resetTokenKey(tokenHash), userID, ttl)
}

// Consume looks up and deletes the reset token.
func (s *resetTokenStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	found, err := s.cache.Get(ctx, resetTokenKey(tokenHash), &userID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	if err := s.cache.Delete(ctx, resetTokenKey(tokenHash)); err != nil {
		return "", err
	}
	return userID, nil
}

// Package auth provides authentication utilities.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// SessionTokenGenerator generates and validates opaque refresh tokens.
// A token carries the public session ID so the server can look the session
// up without a table scan; the random half is what actually authenticates.
type SessionTokenGenerator interface {
	// Generate creates a new refresh token with a new session ID.
	Generate() (token string, sessionID string, err error)
	// GenerateWithSession creates a new token within an existing session
	// (used on rotation).
	GenerateWithSession(sessionID string) (string, error)
	// ExtractSessionID parses the session ID from a token.
	ExtractSessionID(token string) (string, error)
	// Hash returns the SHA-256 hash of a token.
	Hash(token string) string
	// CompareHashes securely compares two token hashes.
	CompareHashes(hash1, hash2 string) bool
}

type sessionTokenGenerator struct{}

// NewSessionTokenGenerator creates a new SessionTokenGenerator.
func NewSessionTokenGenerator() SessionTokenGenerator {
	return &sessionTokenGenerator{}
}

// Generate creates a new refresh token in format: st_{sessionID}_{random}
// - sessionID: 16-character hex string (8 bytes)
// - random: 32-character hex string (16 bytes)
func (g *sessionTokenGenerator) Generate() (string, string, error) {
	sessionID, err := g.generateRandomHex(8)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate session ID: %w", err)
	}

	random, err := g.generateRandomHex(16)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate random part: %w", err)
	}

	token := fmt.Sprintf("st_%s_%s", sessionID, random)
	return token, sessionID, nil
}

// GenerateWithSession creates a new refresh token for an existing session.
func (g *sessionTokenGenerator) GenerateWithSession(sessionID string) (string, error) {
	random, err := g.generateRandomHex(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate random part: %w", err)
	}

	token := fmt.Sprintf("st_%s_%s", sessionID, random)
	return token, nil
}

// ExtractSessionID parses the session ID from a refresh token.
func (g *sessionTokenGenerator) ExtractSessionID(token string) (string, error) {
	parts := strings.Split(token, "_")
	if len(parts) != 3 || parts[0] != "st" {
		return "", fmt.Errorf("invalid refresh token format")
	}
	if len(parts[1]) != 16 {
		return "", fmt.Errorf("invalid session ID length")
	}
	// Validate hex characters
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return "", fmt.Errorf("invalid session ID format: must be hex")
	}
	return parts[1], nil
}

// Hash returns the SHA-256 hash of the token as a hex string.
func (g *sessionTokenGenerator) Hash(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CompareHashes securely compares two token hashes using constant-time comparison.
func (g *sessionTokenGenerator) CompareHashes(hash1, hash2 string) bool {
	return subtle.ConstantTimeCompare([]byte(hash1), []byte(hash2)) == 1
}

// generateRandomHex generates a random hex string of specified byte length.
func (g *sessionTokenGenerator) generateRandomHex(byteLen int) (string, error) {
	bytes := make([]byte, byteLen)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateResetToken creates a random single-use password reset token.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashResetToken hashes a reset token for storage lookup.
func HashResetToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

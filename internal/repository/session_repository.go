package repository

import (
	"context"
	"errors"
	"time"

	apperrors "krushak/internal/errors"
	"krushak/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository stores refresh sessions. A user holds a set of sessions,
// one per logged-in device, each independently revocable.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.Session, error)
	// Rotate swaps in a new token hash, keeping the old one for
	// one-token-lookback reuse detection.
	Rotate(ctx context.Context, sessionID, newTokenHash string, expiresAt time.Time) error
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}

type sessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *mongo.Database) SessionRepository {
	return &sessionRepository{
		collection: db.Collection("sessions"),
	}
}

// Create inserts a new session.
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.IssuedAt.IsZero() {
		session.IssuedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return err
	}

	session.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindBySessionID finds a session by its public identifier.
func (r *sessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session

	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}

	return &session, nil
}

// Rotate replaces the current token hash, demoting it to previous.
func (r *sessionRepository) Rotate(ctx context.Context, sessionID, newTokenHash string, expiresAt time.Time) error {
	session, err := r.FindBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(
		ctx,
		// Guard on the current hash so two concurrent refreshes of the same
		// session cannot both rotate; the loser sees ErrSessionNotFound and
		// the reuse-detection path takes over.
		bson.M{"sessionId": sessionID, "tokenHash": session.TokenHash},
		bson.M{"$set": bson.M{
			"tokenHash":         newTokenHash,
			"previousTokenHash": session.TokenHash,
			"expiresAt":         expiresAt,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// Delete revokes a single session.
func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// DeleteByUserID revokes every session of a user.
func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

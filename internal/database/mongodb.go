// Package database provides database connection and management.
package database

import (
	"context"
	"log"
	"time"

	"krushak/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB holds the database connection
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB creates a new MongoDB connection
func NewMongoDB(uri, dbName string) *MongoDB {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Printf("Connected to MongoDB: %s", dbName)

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}
}

// Close disconnects from MongoDB
func (m *MongoDB) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
	log.Println("Disconnected from MongoDB")
}

// Collection returns a collection from the database
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// EnsureIndexes creates every index the application depends on. Safe to run
// repeatedly; Mongo treats identical definitions as no-ops.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"equipment", mongo.IndexModel{
			Keys: bson.D{{Key: "geometry", Value: "2dsphere"}},
		}},
		{"equipment", mongo.IndexModel{
			Keys: bson.D{{Key: "owner", Value: 1}},
		}},
		{"equipment", mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		}},
		// One active booking per (user, equipment). The partial filter keeps
		// the uniqueness constraint to non-terminal statuses, so a cancelled
		// or completed booking never blocks a new one. Concurrent duplicate
		// creations lose the race at the index, not at a read-then-write check.
		{"bookings", mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "equipmentId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": models.ActiveStatuses},
				}),
		}},
		{"bookings", mongo.IndexModel{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{"sessions", mongo.IndexModel{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"sessions", mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}},
		}},
		// TTL index: Mongo reaps expired sessions on its own.
		{"sessions", mongo.IndexModel{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		}},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return err
		}
	}
	return nil
}

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

// BookingRepository defines the interface for booking data operations.
type BookingRepository interface {
	// Create inserts a booking. The partial unique index on
	// (userId, equipmentId, active statuses) makes the one-active-booking
	// rule atomic; a duplicate insert surfaces as ErrAlreadyBooked no matter
	// how the requests interleave.
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error)
	CountActiveForEquipment(ctx context.Context, equipmentID primitive.ObjectID) (int64, error)
	// UpdateStatus transitions a booking from one status to another. The
	// expected current status is part of the filter, so a stale transition
	// loses the race and reports ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error
}

// bookingRepository implements BookingRepository using MongoDB.
type bookingRepository struct {
	collection *mongo.Collection
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

// Create inserts a new booking.
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyBooked
		}
		return err
	}

	booking.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a booking by ID.
func (r *bookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

// equipmentLookupStages joins the booked equipment document.
func equipmentLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "equipment",
			"localField":   "equipmentId",
			"foreignField": "_id",
			"as":           "equipment",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$equipment",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
}

// FindByUser returns a renter's bookings with equipment joined, newest first.
func (r *bookingRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return r.findWithEquipment(ctx, bson.M{"userId": userID})
}

// FindByOwner returns an owner's incoming bookings with equipment joined.
func (r *bookingRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error) {
	return r.findWithEquipment(ctx, bson.M{"ownerId": ownerID})
}

func (r *bookingRepository) findWithEquipment(ctx context.Context, match bson.M) ([]models.Booking, error) {
	pipeline := append([]bson.D{{{Key: "$match", Value: match}}}, equipmentLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// CountActiveForEquipment counts non-terminal bookings on one equipment.
func (r *bookingRepository) CountActiveForEquipment(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"equipmentId": equipmentID,
		"status":      bson.M{"$in": models.ActiveStatuses},
	})
}

// UpdateStatus performs a compare-and-swap status transition.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the booking is gone or its status moved under us.
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return apperrors.ErrInvalidTransition
	}
	return nil
}

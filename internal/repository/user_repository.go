// Package repository provides data access operations for the application.
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxRecentlyViewed caps the recently-viewed list per user.
const maxRecentlyViewed = 10

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindAllIDs(ctx context.Context) ([]primitive.ObjectID, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update *models.UpdateProfileRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	UpdateMedia(ctx context.Context, id primitive.ObjectID, field, url string) error
	ToggleFavorite(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error)
	PushRecentlyViewed(ctx context.Context, id, equipmentID primitive.ObjectID) error
}

// userRepository implements UserRepository using MongoDB
type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if existing, _ := r.FindByEmail(ctx, user.Email); existing != nil {
		return apperrors.ErrEmailTaken
	}
	if existing, _ := r.FindByUsername(ctx, user.Username); existing != nil {
		return apperrors.ErrUsernameTaken
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	if user.RecentlyViewed == nil {
		user.RecentlyViewed = []models.ViewedEquipment{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// The unique indexes are the real guard; the reads above just give
		// nicer errors in the common case.
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByEmail finds a user by their email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByUsername finds a user by their username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindAllIDs returns the IDs of every user, for sitemap generation.
func (r *userRepository) FindAllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// UpdateProfile updates a user's profile fields.
func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update *models.UpdateProfileRequest) (*models.User, error) {
	updateDoc := bson.M{"updatedAt": time.Now()}

	if update.DisplayName != nil {
		updateDoc["displayName"] = *update.DisplayName
	}
	if update.Phone != nil {
		updateDoc["phone"] = *update.Phone
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updateDoc},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var user models.User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	return r.setFields(ctx, id, bson.M{"password": hashedPassword})
}

// UpdateRole sets the user's role.
func (r *userRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return r.setFields(ctx, id, bson.M{"role": role})
}

// UpdateMedia sets the avatar or coverImage URL.
func (r *userRepository) UpdateMedia(ctx context.Context, id primitive.ObjectID, field, url string) error {
	return r.setFields(ctx, id, bson.M{field: url})
}

func (r *userRepository) setFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ToggleFavorite adds or removes an equipment reference from the favorites
// set. Returns true when the equipment is a favorite after the call.
func (r *userRepository) ToggleFavorite(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	isFavorite := false
	for _, fav := range user.Favorites {
		if fav == equipmentID {
			isFavorite = true
			break
		}
	}

	var update bson.M
	if isFavorite {
		update = bson.M{"$pull": bson.M{"favorites": equipmentID}}
	} else {
		update = bson.M{"$addToSet": bson.M{"favorites": equipmentID}}
	}
	update["$set"] = bson.M{"updatedAt": time.Now()}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return false, err
	}
	return !isFavorite, nil
}

// PushRecentlyViewed records an equipment view: the entry moves to the front,
// duplicates are removed and the list is capped.
func (r *userRepository) PushRecentlyViewed(ctx context.Context, id, equipmentID primitive.ObjectID) error {
	// Drop any existing entry first so the re-push deduplicates.
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"recentlyViewedEquipment": bson.M{"equipmentId": equipmentID}},
	})
	if err != nil {
		return err
	}

	entry := models.ViewedEquipment{EquipmentID: equipmentID, ViewedAt: time.Now()}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{
			"recentlyViewedEquipment": bson.M{
				"$each":     []models.ViewedEquipment{entry},
				"$position": 0,
				"$slice":    maxRecentlyViewed,
			},
		},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

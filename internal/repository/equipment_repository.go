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

// EquipmentRepository defines the interface for equipment data operations.
type EquipmentRepository interface {
	Create(ctx context.Context, eq *models.Equipment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error)
	FindAllIDs(ctx context.Context) ([]primitive.ObjectID, error)
	// SearchNearby runs the $geoNear pipeline: spherical nearest-neighbor
	// within maxDistanceM of center, distance ascending, with a trimmed
	// owner projection joined in. Distance is the primary sort key; sortBy
	// orders listings within equal-distance groups.
	SearchNearby(ctx context.Context, center models.GeoPoint, maxDistanceM float64, sortBy string) ([]models.Equipment, error)
	// ListAll returns all equipment sorted per sortBy (default createdAt
	// descending) with the trimmed owner projection joined in.
	ListAll(ctx context.Context, sortBy string) ([]models.Equipment, error)
	Filter(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Equipment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// equipmentRepository implements EquipmentRepository using MongoDB.
type equipmentRepository struct {
	collection *mongo.Collection
}

// NewEquipmentRepository creates a new EquipmentRepository.
func NewEquipmentRepository(db *mongo.Database) EquipmentRepository {
	return &equipmentRepository{
		collection: db.Collection("equipment"),
	}
}

// Create inserts a new equipment listing.
func (r *equipmentRepository) Create(ctx context.Context, eq *models.Equipment) error {
	now := time.Now()
	eq.CreatedAt = now
	eq.UpdatedAt = now
	if eq.Images == nil {
		eq.Images = []string{}
	}
	if eq.UsedForCrops == nil {
		eq.UsedForCrops = []string{}
	}

	result, err := r.collection.InsertOne(ctx, eq)
	if err != nil {
		return err
	}

	eq.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds equipment by ID.
func (r *equipmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
	var eq models.Equipment

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&eq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		return nil, err
	}

	return &eq, nil
}

// FindByOwner returns every listing of one owner, newest first.
func (r *equipmentRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeEquipment(ctx, cursor)
}

// FindAllIDs returns the IDs of every listing, for sitemap generation.
func (r *equipmentRepository) FindAllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
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

// ownerLookupStages joins the trimmed public owner profile. Only displayName
// and avatar cross this boundary; contact info never appears in listings.
func ownerLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "ownerProfile",
			"pipeline": []bson.M{
				{"$project": bson.M{"_id": 1, "displayName": 1, "avatar": 1}},
			},
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$ownerProfile",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// sortKeys maps the caller's sort key to Mongo sort fields.
func sortKeys(sortBy string) bson.D {
	switch sortBy {
	case "price":
		// Ascending sort on the array path compares the minimum tier price;
		// pricing is validated non-empty.
		return bson.D{{Key: "pricing.price", Value: 1}}
	case "availability":
		return bson.D{
			{Key: "availability", Value: -1},
			{Key: "createdAt", Value: -1},
		}
	default: // "latest" and unset
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// secondarySortStage maps the caller's sort key to a pipeline stage.
func secondarySortStage(sortBy string) bson.D {
	return bson.D{{Key: "$sort", Value: sortKeys(sortBy)}}
}

// geoSortStage keeps distance as the leading key so nearest-first always
// wins; the requested sort only orders equal-distance listings, which are
// common when several villages geocode to the same point.
func geoSortStage(sortBy string) bson.D {
	keys := bson.D{{Key: "distanceMeters", Value: 1}}
	keys = append(keys, sortKeys(sortBy)...)
	return bson.D{{Key: "$sort", Value: keys}}
}

// SearchNearby runs the geo pipeline centered on a resolved point.
func (r *equipmentRepository) SearchNearby(ctx context.Context, center models.GeoPoint, maxDistanceM float64, sortBy string) ([]models.Equipment, error) {
	pipeline := []bson.D{
		// $geoNear must be the first stage. It both filters by distance and
		// orders ascending by distance.
		{{Key: "$geoNear", Value: bson.M{
			"near":          center,
			"distanceField": "distanceMeters",
			"maxDistance":   maxDistanceM,
			"spherical":     true,
		}}},
	}
	pipeline = append(pipeline, ownerLookupStages()...)
	pipeline = append(pipeline, geoSortStage(sortBy))

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeEquipment(ctx, cursor)
}

// ListAll returns every listing with owners joined, sorted per sortBy.
func (r *equipmentRepository) ListAll(ctx context.Context, sortBy string) ([]models.Equipment, error) {
	pipeline := append(ownerLookupStages(), secondarySortStage(sortBy))

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeEquipment(ctx, cursor)
}

// Filter returns listings matching the attribute filters, newest first.
func (r *equipmentRepository) Filter(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error) {
	filter := bson.M{}
	if q.Category != nil {
		filter["category"] = *q.Category
	}
	if q.Type != nil {
		filter["type"] = *q.Type
	}
	if q.Condition != nil {
		filter["condition"] = *q.Condition
	}
	if q.Crop != nil {
		filter["usedForCrops"] = *q.Crop
	}
	if q.Availability != nil {
		filter["availability"] = *q.Availability
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["pricing"] = bson.M{"$elemMatch": bson.M{"price": price}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeEquipment(ctx, cursor)
}

// Update applies a $set document and returns the updated listing.
func (r *equipmentRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Equipment, error) {
	set["updatedAt"] = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var eq models.Equipment
	if err := result.Decode(&eq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		return nil, err
	}

	return &eq, nil
}

// Delete removes equipment from the database.
func (r *equipmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrEquipmentNotFound
	}

	return nil
}

// decodeEquipment drains a cursor into a never-nil slice.
func decodeEquipment(ctx context.Context, cursor *mongo.Cursor) ([]models.Equipment, error) {
	var items []models.Equipment
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Equipment{}
	}
	return items, nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups equipment by broad function.
type Category string

const (
	CategoryTractor    Category = "Tractor"
	CategoryHarvester  Category = "Harvester"
	CategoryPlough     Category = "Plough"
	CategorySeeder     Category = "Seeder"
	CategorySprayer    Category = "Sprayer"
	CategoryIrrigation Category = "Irrigation"
	CategoryTrailer    Category = "Trailer"
	CategoryOther      Category = "Other"
)

// Condition describes the physical state of the equipment.
type Condition string

const (
	ConditionNew        Condition = "New"
	ConditionLikeNew    Condition = "LikeNew"
	ConditionGood       Condition = "Good"
	ConditionServicable Condition = "Servicable"
)

// PricingUnit is the billing unit of a pricing tier.
type PricingUnit string

const (
	UnitPerHour    PricingUnit = "per_hour"
	UnitPerDay     PricingUnit = "per_day"
	UnitPerWeek    PricingUnit = "per_week"
	UnitPerHectare PricingUnit = "per_hectare"
)

// PricingTier is one rate at which the equipment can be rented.
type PricingTier struct {
	Unit  PricingUnit `json:"unit" bson:"unit" binding:"required,pricingunit"`
	Price float64     `json:"price" bson:"price" binding:"required,gte=1"`
}

// ModelInfo holds manufacturer details.
type ModelInfo struct {
	Brand string `json:"brand" bson:"brand" binding:"required"`
	Name  string `json:"name" bson:"name" binding:"required"`
}

// AvailabilityArea describes a region the equipment can be used in,
// distinct from where it currently is.
type AvailabilityArea struct {
	Country  string   `json:"country" bson:"country" binding:"required"`
	State    string   `json:"state" bson:"state" binding:"required"`
	District string   `json:"district" bson:"district" binding:"required"`
	Villages []string `json:"villages" bson:"villages"`
}

// GeoPoint is a GeoJSON Point. Coordinates are always [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a lng/lat pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// MaxEquipmentImages caps the image gallery size per equipment.
const MaxEquipmentImages = 5

// Equipment represents a rentable equipment listing.
type Equipment struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description" bson:"description"`
	Category         Category           `json:"category" bson:"category"`
	Type             string             `json:"type" bson:"type"`
	Model            ModelInfo          `json:"model" bson:"model"`
	Year             int                `json:"year" bson:"year"`
	Condition        Condition          `json:"condition" bson:"condition"`
	Images           []string           `json:"images" bson:"images"`
	Video            string             `json:"video,omitempty" bson:"video,omitempty"`
	Pricing          []PricingTier      `json:"pricing" bson:"pricing"`
	Availability     bool               `json:"availability" bson:"availability"`
	Owner            primitive.ObjectID `json:"owner" bson:"owner"`
	AvailabilityArea []AvailabilityArea `json:"availabilityArea" bson:"availabilityArea"`
	CurrentLocation  string             `json:"currentLocation" bson:"currentLocation"`
	Geometry         GeoPoint           `json:"geometry" bson:"geometry"`
	UsedForCrops     []string           `json:"usedForCrops" bson:"usedForCrops"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Populated by the search pipeline, not stored.
	OwnerProfile *PublicProfile `json:"ownerProfile,omitempty" bson:"ownerProfile,omitempty"`
	DistanceM    float64        `json:"distanceMeters,omitempty" bson:"distanceMeters,omitempty"`
}

// CreateEquipmentRequest is the multipart form payload for creating equipment.
// Images and video arrive as files alongside this form.
type CreateEquipmentRequest struct {
	Name             string             `form:"name" json:"name" binding:"required,min=2,max=150"`
	Description      string             `form:"description" json:"description" binding:"required,min=10"`
	Category         Category           `form:"category" json:"category" binding:"required,category"`
	Type             string             `form:"type" json:"type" binding:"required"`
	Model            ModelInfo          `form:"model" json:"model" binding:"required"`
	Year             int                `form:"year" json:"year" binding:"required,gte=1970,lte=2100"`
	Condition        Condition          `form:"condition" json:"condition" binding:"required,condition"`
	Pricing          []PricingTier      `form:"pricing" json:"pricing" binding:"required,min=1,dive"`
	AvailabilityArea []AvailabilityArea `form:"availabilityArea" json:"availabilityArea" binding:"required,min=1,dive"`
	CurrentLocation  string             `form:"currentLocation" json:"currentLocation" binding:"required"`
	UsedForCrops     []string           `form:"usedForCrops" json:"usedForCrops" binding:"omitempty,dive,crop"`
}

// UpdateEquipmentRequest is the payload for partial equipment updates.
// Media fields are deliberately absent: images and video can only be
// changed through the dedicated media endpoints.
type UpdateEquipmentRequest struct {
	Name             *string             `json:"name" binding:"omitempty,min=2,max=150"`
	Description      *string             `json:"description" binding:"omitempty,min=10"`
	Category         *Category           `json:"category" binding:"omitempty,category"`
	Type             *string             `json:"type"`
	Model            *ModelInfo          `json:"model"`
	Year             *int                `json:"year" binding:"omitempty,gte=1970,lte=2100"`
	Condition        *Condition          `json:"condition" binding:"omitempty,condition"`
	Pricing          *[]PricingTier      `json:"pricing" binding:"omitempty,min=1,dive"`
	Availability     *bool               `json:"availability"`
	AvailabilityArea *[]AvailabilityArea `json:"availabilityArea" binding:"omitempty,min=1,dive"`
	CurrentLocation  *string             `json:"currentLocation"`
	UsedForCrops     *[]string           `json:"usedForCrops" binding:"omitempty,dive,crop"`
}

// RemoveImageRequest identifies a single gallery image by its public URL.
type RemoveImageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required,url"`
}

// SearchQuery carries the geo-search parameters.
type SearchQuery struct {
	Location string  `form:"location"`
	RadiusKm float64 `form:"radius,default=50"`
	SortBy   string  `form:"sortBy" binding:"omitempty,oneof=latest price availability"`
}

// FilterQuery carries attribute filter parameters.
type FilterQuery struct {
	Category     *Category  `form:"category" binding:"omitempty,category"`
	Type         *string    `form:"type"`
	Condition    *Condition `form:"condition" binding:"omitempty,condition"`
	Crop         *string    `form:"crop" binding:"omitempty,crop"`
	MinPrice     *float64   `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice     *float64   `form:"maxPrice" binding:"omitempty,gte=0"`
	Availability *bool      `form:"availability"`
}

// MapMarker is the map-oriented projection of a search result.
type MapMarker struct {
	ID          primitive.ObjectID `json:"id"`
	Coordinates []float64          `json:"coordinates"`
	Label       string             `json:"label"`
	OwnerAvatar string             `json:"ownerAvatar,omitempty"`
	OwnerName   string             `json:"ownerName"`
}

// SearchResponse combines list and map views of a geo search.
type SearchResponse struct {
	Equipment            []Equipment `json:"equipment"`
	Markers              []MapMarker `json:"markers"`
	UserSearchedLocation []float64   `json:"userSearchedLocation,omitempty"`
}

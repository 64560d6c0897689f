package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"krushak/internal/cache"
	apperrors "krushak/internal/errors"
	"krushak/internal/geocode"
	"krushak/internal/metrics"
	"krushak/internal/models"
	"krushak/internal/repository"
	"krushak/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// markerJitter nudges overlapping markers apart so every listing stays
// clickable on the map. Roughly 13 meters per step at the equator.
const markerJitter = 0.00012

// equipmentCacheTTL bounds how stale a cached listing can get.
const equipmentCacheTTL = 5 * time.Minute

// EquipmentService implements EquipmentServicer.
type EquipmentService struct {
	equipmentRepo repository.EquipmentRepository
	bookingRepo   repository.BookingRepository
	userSvc       UserServicer
	geocoder      geocode.Geocoder
	storage       storage.Storage
	cache         cache.Cache
}

// NewEquipmentService creates a new EquipmentService.
func NewEquipmentService(
	equipmentRepo repository.EquipmentRepository,
	bookingRepo repository.BookingRepository,
	userSvc UserServicer,
	geocoder geocode.Geocoder,
	s storage.Storage,
	c cache.Cache,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		bookingRepo:   bookingRepo,
		userSvc:       userSvc,
		geocoder:      geocoder,
		storage:       s,
		cache:         c,
	}
}

// Create geocodes the location, stores the listing with its media and
// promotes the creator to EquipmentOwner.
func (s *EquipmentService) Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateEquipmentRequest, images []Upload, video *Upload) (*models.Equipment, error) {
	if len(images) > models.MaxEquipmentImages {
		cleanupUploads(images, video)
		return nil, apperrors.ErrImageLimitExceeded
	}

	// Creation requires a resolvable location; a listing that cannot be
	// placed on the map is useless to searchers.
	point, err := s.geocoder.Geocode(ctx, req.CurrentLocation)
	if err != nil {
		cleanupUploads(images, video)
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if point == nil {
		cleanupUploads(images, video)
		return nil, apperrors.ErrLocationNotResolvable
	}

	eq := &models.Equipment{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Type:             req.Type,
		Model:            req.Model,
		Year:             req.Year,
		Condition:        req.Condition,
		Pricing:          req.Pricing,
		Availability:     true,
		Owner:            ownerID,
		AvailabilityArea: req.AvailabilityArea,
		CurrentLocation:  req.CurrentLocation,
		Geometry:         models.NewGeoPoint(point.Lng, point.Lat),
		UsedForCrops:     req.UsedForCrops,
	}

	imageURLs, videoURL, err := s.uploadMedia(ctx, ownerID, images, video)
	if err != nil {
		return nil, err
	}
	eq.Images = imageURLs
	eq.Video = videoURL

	if err := s.equipmentRepo.Create(ctx, eq); err != nil {
		// The listing never existed; drop the media it would have owned.
		for _, url := range imageURLs {
			s.deleteByURL(ctx, url)
		}
		s.deleteByURL(ctx, videoURL)
		return nil, err
	}

	if err := s.userSvc.PromoteToOwner(ctx, ownerID); err != nil {
		log.Printf("failed to promote user %s to owner: %v", ownerID.Hex(), err)
	}

	return eq, nil
}

// Get returns one listing, cache-aside, and for a logged-in viewer records
// the view.
func (s *EquipmentService) Get(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*models.Equipment, error) {
	eq, err := s.cachedEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerID != nil && *viewerID != eq.Owner {
		if err := s.userSvc.RecordView(ctx, *viewerID, id); err != nil {
			log.Printf("failed to record view for user %s: %v", viewerID.Hex(), err)
		}
	}

	return eq, nil
}

func (s *EquipmentService) cachedEquipment(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
	key := cache.EquipmentCacheKey(id.Hex())

	var cached models.Equipment
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	eq, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, eq, equipmentCacheTTL); err != nil {
		log.Printf("failed to cache equipment %s: %v", id.Hex(), err)
	}
	return eq, nil
}

func (s *EquipmentService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Delete(ctx, cache.EquipmentCacheKey(id.Hex())); err != nil {
		log.Printf("failed to invalidate equipment cache %s: %v", id.Hex(), err)
	}
}

// Update applies a partial update. Only the owner may update, and a changed
// currentLocation is re-geocoded.
func (s *EquipmentService) Update(ctx context.Context, id, actorID primitive.ObjectID, req *models.UpdateEquipmentRequest) (*models.Equipment, error) {
	eq, err := s.ownedEquipment(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Type != nil {
		set["type"] = *req.Type
	}
	if req.Model != nil {
		set["model"] = *req.Model
	}
	if req.Year != nil {
		set["year"] = *req.Year
	}
	if req.Condition != nil {
		set["condition"] = *req.Condition
	}
	if req.Pricing != nil {
		set["pricing"] = *req.Pricing
	}
	if req.Availability != nil {
		set["availability"] = *req.Availability
	}
	if req.AvailabilityArea != nil {
		set["availabilityArea"] = *req.AvailabilityArea
	}
	if req.UsedForCrops != nil {
		set["usedForCrops"] = *req.UsedForCrops
	}
	if req.CurrentLocation != nil && *req.CurrentLocation != eq.CurrentLocation {
		point, err := s.geocoder.Geocode(ctx, *req.CurrentLocation)
		if err != nil {
			return nil, fmt.Errorf("geocoding failed: %w", err)
		}
		if point == nil {
			return nil, apperrors.ErrLocationNotResolvable
		}
		set["currentLocation"] = *req.CurrentLocation
		set["geometry"] = models.NewGeoPoint(point.Lng, point.Lat)
	}

	if len(set) == 0 {
		return eq, nil
	}

	updated, err := s.equipmentRepo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// AddImages appends gallery images, enforcing the gallery cap.
func (s *EquipmentService) AddImages(ctx context.Context, id, actorID primitive.ObjectID, images []Upload) (*models.Equipment, error) {
	eq, err := s.ownedEquipment(ctx, id, actorID)
	if err != nil {
		cleanupUploads(images, nil)
		return nil, err
	}

	remaining := models.MaxEquipmentImages - len(eq.Images)
	if len(images) > remaining {
		cleanupUploads(images, nil)
		return nil, fmt.Errorf("%w: you can only upload %d more image(s)", apperrors.ErrImageLimitExceeded, remaining)
	}

	urls, _, err := s.uploadMedia(ctx, eq.Owner, images, nil)
	if err != nil {
		return nil, err
	}

	updated, err := s.equipmentRepo.Update(ctx, id, bson.M{"images": append(eq.Images, urls...)})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// ReplaceVideo swaps the demo video; the previous one is deleted.
func (s *EquipmentService) ReplaceVideo(ctx context.Context, id, actorID primitive.ObjectID, video *Upload) (*models.Equipment, error) {
	eq, err := s.ownedEquipment(ctx, id, actorID)
	if err != nil {
		cleanupUploads(nil, video)
		return nil, err
	}

	_, videoURL, err := s.uploadMedia(ctx, eq.Owner, nil, video)
	if err != nil {
		return nil, err
	}

	updated, err := s.equipmentRepo.Update(ctx, id, bson.M{"video": videoURL})
	if err != nil {
		s.deleteByURL(ctx, videoURL)
		return nil, err
	}

	s.deleteByURL(ctx, eq.Video)
	s.invalidate(ctx, id)
	return updated, nil
}

// RemoveImage deletes a single gallery image by URL.
func (s *EquipmentService) RemoveImage(ctx context.Context, id, actorID primitive.ObjectID, imageURL string) (*models.Equipment, error) {
	eq, err := s.ownedEquipment(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(eq.Images))
	found := false
	for _, img := range eq.Images {
		if img == imageURL {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, apperrors.ErrImageNotFound
	}

	updated, err := s.equipmentRepo.Update(ctx, id, bson.M{"images": kept})
	if err != nil {
		return nil, err
	}

	s.deleteByURL(ctx, imageURL)
	s.invalidate(ctx, id)
	return updated, nil
}

// Delete removes a listing. Blocked while bookings are in flight; on success
// all stored media is deleted too.
func (s *EquipmentService) Delete(ctx context.Context, id, actorID primitive.ObjectID) error {
	eq, err := s.ownedEquipment(ctx, id, actorID)
	if err != nil {
		return err
	}

	active, err := s.bookingRepo.CountActiveForEquipment(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperrors.ErrEquipmentHasBookings
	}

	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, img := range eq.Images {
		s.deleteByURL(ctx, img)
	}
	s.deleteByURL(ctx, eq.Video)

	s.invalidate(ctx, id)
	return nil
}

// Search resolves the free-text location and runs the geo pipeline. An
// unresolvable or missing location degrades to the unscoped listing sorted
// per sortBy; it never fails the request.
func (s *EquipmentService) Search(ctx context.Context, q *models.SearchQuery) (*models.SearchResponse, error) {
	radiusKm := q.RadiusKm
	if radiusKm <= 0 {
		radiusKm = 50
	}

	var center *geocode.Point
	if q.Location != "" {
		point, err := s.geocoder.Geocode(ctx, q.Location)
		if err != nil {
			log.Printf("geocoding %q failed, falling back to unscoped search: %v", q.Location, err)
		} else {
			center = point
		}
	}

	var items []models.Equipment
	var err error
	if center != nil {
		metrics.IncGeoSearch(true)
		items, err = s.equipmentRepo.SearchNearby(ctx, models.NewGeoPoint(center.Lng, center.Lat), radiusKm*1000, q.SortBy)
	} else {
		metrics.IncGeoSearch(false)
		items, err = s.equipmentRepo.ListAll(ctx, q.SortBy)
	}
	if err != nil {
		return nil, err
	}

	resp := &models.SearchResponse{
		Equipment: items,
		Markers:   buildMarkers(items),
	}
	if center != nil {
		resp.UserSearchedLocation = []float64{center.Lng, center.Lat}
	}
	return resp, nil
}

// Filter returns listings matching attribute filters.
func (s *EquipmentService) Filter(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error) {
	return s.equipmentRepo.Filter(ctx, q)
}

// ListByOwner returns all listings of one owner.
func (s *EquipmentService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error) {
	return s.equipmentRepo.FindByOwner(ctx, ownerID)
}

// ownedEquipment loads a listing and checks the actor owns it.
func (s *EquipmentService) ownedEquipment(ctx context.Context, id, actorID primitive.ObjectID) (*models.Equipment, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq.Owner != actorID {
		return nil, apperrors.ErrNotEquipmentOwner
	}
	return eq, nil
}

// uploadMedia streams spooled uploads to object storage. On a failed image
// upload, the ones already stored are rolled back.
func (s *EquipmentService) uploadMedia(ctx context.Context, ownerID primitive.ObjectID, images []Upload, video *Upload) ([]string, string, error) {
	imageURLs := make([]string, 0, len(images))
	for i := range images {
		url, err := s.uploadOne(ctx, objectKey("equipment/images", ownerID.Hex(), images[i].Filename), &images[i])
		if err != nil {
			cleanupUploads(images[i+1:], video)
			for _, stored := range imageURLs {
				s.deleteByURL(ctx, stored)
			}
			return nil, "", err
		}
		imageURLs = append(imageURLs, url)
	}

	videoURL := ""
	if video != nil {
		url, err := s.uploadOne(ctx, objectKey("equipment/videos", ownerID.Hex(), video.Filename), video)
		if err != nil {
			for _, stored := range imageURLs {
				s.deleteByURL(ctx, stored)
			}
			return nil, "", err
		}
		videoURL = url
	}

	return imageURLs, videoURL, nil
}

func (s *EquipmentService) uploadOne(ctx context.Context, key string, upload *Upload) (string, error) {
	defer removeTemp(upload)

	f, err := os.Open(upload.TempPath)
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	return s.storage.Upload(ctx, key, f, upload.ContentType)
}

func (s *EquipmentService) deleteByURL(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, err := s.storage.KeyFromURL(url)
	if err != nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Printf("failed to delete object %s: %v", key, err)
	}
}

// buildMarkers projects search results onto the map. Listings without a
// resolvable coordinate pair are skipped, and listings sharing exact
// coordinates are nudged apart deterministically.
func buildMarkers(items []models.Equipment) []models.MapMarker {
	markers := make([]models.MapMarker, 0, len(items))
	seen := make(map[[2]float64]int)

	for _, eq := range items {
		if len(eq.Geometry.Coordinates) != 2 {
			continue
		}
		lng, lat := eq.Geometry.Coordinates[0], eq.Geometry.Coordinates[1]

		key := [2]float64{lng, lat}
		if n := seen[key]; n > 0 {
			offset := markerJitter * float64(n)
			lng += offset
			lat += offset
		}
		seen[key]++

		marker := models.MapMarker{
			ID:          eq.ID,
			Coordinates: []float64{lng, lat},
			Label:       eq.Name,
		}
		if eq.OwnerProfile != nil {
			marker.OwnerName = eq.OwnerProfile.DisplayName
			marker.OwnerAvatar = eq.OwnerProfile.Avatar
		}
		markers = append(markers, marker)
	}

	return markers
}

func cleanupUploads(images []Upload, video *Upload) {
	for i := range images {
		removeTemp(&images[i])
	}
	removeTemp(video)
}

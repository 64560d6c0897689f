package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"krushak/internal/cache"
	apperrors "krushak/internal/errors"
	"krushak/internal/models"
	"krushak/internal/repository"
	"krushak/internal/storage"
	"krushak/pkg/auth"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userCacheTTL bounds how stale a cached profile can get.
const userCacheTTL = 5 * time.Minute

// UserService implements UserServicer.
type UserService struct {
	userRepo repository.UserRepository
	cache    cache.Cache
	storage  storage.Storage
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, c cache.Cache, s storage.Storage) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    c,
		storage:  s,
	}
}

// GetProfile returns a user's full profile, cache-aside.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	key := cache.UserCacheKey(id.Hex())

	var cached models.User
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, user, userCacheTTL); err != nil {
		log.Printf("failed to cache user %s: %v", id.Hex(), err)
	}
	return user, nil
}

// UpdateProfile updates mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return user, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, req *models.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.OldPassword) {
		return apperrors.ErrPasswordMismatch
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, id, hashed)
}

// UpdateAvatar uploads a new avatar image and returns its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, upload *Upload) (string, error) {
	return s.updateMedia(ctx, id, "avatar", "avatars", upload)
}

// UpdateCover uploads a new cover image and returns its URL.
func (s *UserService) UpdateCover(ctx context.Context, id primitive.ObjectID, upload *Upload) (string, error) {
	return s.updateMedia(ctx, id, "coverImage", "covers", upload)
}

func (s *UserService) updateMedia(ctx context.Context, id primitive.ObjectID, field, prefix string, upload *Upload) (string, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		removeTemp(upload)
		return "", err
	}

	key := objectKey(prefix, id.Hex(), upload.Filename)
	url, err := s.uploadLocalFile(ctx, key, upload)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateMedia(ctx, id, field, url); err != nil {
		// Roll back the orphaned object, best-effort.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Printf("failed to clean up orphaned object %s: %v", key, delErr)
		}
		return "", err
	}

	// Replace semantics: the previous object is no longer referenced.
	old := user.Avatar
	if field == "coverImage" {
		old = user.CoverImage
	}
	s.deleteByURL(ctx, old)

	s.invalidate(ctx, id)
	return url, nil
}

// ToggleFavorite flips an equipment's membership in the favorites set.
func (s *UserService) ToggleFavorite(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error) {
	isFavorite, err := s.userRepo.ToggleFavorite(ctx, id, equipmentID)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, id)
	return isFavorite, nil
}

// RecordView pushes an equipment view onto the recently-viewed list.
func (s *UserService) RecordView(ctx context.Context, id, equipmentID primitive.ObjectID) error {
	if err := s.userRepo.PushRecentlyViewed(ctx, id, equipmentID); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// PromoteToOwner upgrades a Farmer to EquipmentOwner. Owners and admins pass
// through unchanged.
func (s *UserService) PromoteToOwner(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role != models.RoleFarmer {
		return nil
	}

	if err := s.userRepo.UpdateRole(ctx, id, models.RoleEquipmentOwner); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Delete(ctx, cache.UserCacheKey(id.Hex())); err != nil {
		log.Printf("failed to invalidate user cache %s: %v", id.Hex(), err)
	}
}

// uploadLocalFile streams a spooled temp file to object storage. The temp
// file is removed whether or not the upload succeeds.
func (s *UserService) uploadLocalFile(ctx context.Context, key string, upload *Upload) (string, error) {
	defer removeTemp(upload)

	f, err := os.Open(upload.TempPath)
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	return s.storage.Upload(ctx, key, f, upload.ContentType)
}

func (s *UserService) deleteByURL(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, err := s.storage.KeyFromURL(url)
	if err != nil {
		// Foreign URL (e.g. an OAuth avatar), nothing to delete.
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Printf("failed to delete object %s: %v", key, err)
	}
}

// objectKey builds a collision-free storage key preserving the extension.
func objectKey(prefix, ownerHex, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%s/%s%s", prefix, ownerHex, uuid.NewString(), ext)
}

func removeTemp(upload *Upload) {
	if upload == nil || upload.TempPath == "" {
		return
	}
	if err := os.Remove(upload.TempPath); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove temp file %s: %v", upload.TempPath, err)
	}
}

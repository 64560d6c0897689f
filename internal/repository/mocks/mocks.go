// Package mocks provides hand-written test doubles for the repository layer
// and its collaborators.
package mocks

import (
	"context"
	"io"
	"time"

	"krushak/internal/geocode"
	"krushak/internal/mailer"
	"krushak/internal/models"
	"krushak/internal/queue"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is a func-field mock of repository.UserRepository.
type UserRepository struct {
	CreateFn             func(ctx context.Context, user *models.User) error
	FindByIDFn           func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmailFn        func(ctx context.Context, email string) (*models.User, error)
	FindByUsernameFn     func(ctx context.Context, username string) (*models.User, error)
	FindAllIDsFn         func(ctx context.Context) ([]primitive.ObjectID, error)
	UpdateProfileFn      func(ctx context.Context, id primitive.ObjectID, update *models.UpdateProfileRequest) (*models.User, error)
	UpdatePasswordFn     func(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
	UpdateRoleFn         func(ctx context.Context, id primitive.ObjectID, role models.Role) error
	UpdateMediaFn        func(ctx context.Context, id primitive.ObjectID, field, url string) error
	ToggleFavoriteFn     func(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error)
	PushRecentlyViewedFn func(ctx context.Context, id, equipmentID primitive.ObjectID) error
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	return m.CreateFn(ctx, user)
}

func (m *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.FindByEmailFn(ctx, email)
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.FindByUsernameFn(ctx, username)
}

func (m *UserRepository) FindAllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return m.FindAllIDsFn(ctx)
}

func (m *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update *models.UpdateProfileRequest) (*models.User, error) {
	return m.UpdateProfileFn(ctx, id, update)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	return m.UpdatePasswordFn(ctx, id, hashedPassword)
}

func (m *UserRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	return m.UpdateRoleFn(ctx, id, role)
}

func (m *UserRepository) UpdateMedia(ctx context.Context, id primitive.ObjectID, field, url string) error {
	return m.UpdateMediaFn(ctx, id, field, url)
}

func (m *UserRepository) ToggleFavorite(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error) {
	return m.ToggleFavoriteFn(ctx, id, equipmentID)
}

func (m *UserRepository) PushRecentlyViewed(ctx context.Context, id, equipmentID primitive.ObjectID) error {
	return m.PushRecentlyViewedFn(ctx, id, equipmentID)
}

// EquipmentRepository is a func-field mock of repository.EquipmentRepository.
type EquipmentRepository struct {
	CreateFn       func(ctx context.Context, eq *models.Equipment) error
	FindByIDFn     func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error)
	FindByOwnerFn  func(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error)
	FindAllIDsFn   func(ctx context.Context) ([]primitive.ObjectID, error)
	SearchNearbyFn func(ctx context.Context, center models.GeoPoint, maxDistanceM float64, sortBy string) ([]models.Equipment, error)
	ListAllFn      func(ctx context.Context, sortBy string) ([]models.Equipment, error)
	FilterFn       func(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error)
	UpdateFn       func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Equipment, error)
	DeleteFn       func(ctx context.Context, id primitive.ObjectID) error
}

func (m *EquipmentRepository) Create(ctx context.Context, eq *models.Equipment) error {
	return m.CreateFn(ctx, eq)
}

func (m *EquipmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *EquipmentRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error) {
	return m.FindByOwnerFn(ctx, ownerID)
}

func (m *EquipmentRepository) FindAllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return m.FindAllIDsFn(ctx)
}

func (m *EquipmentRepository) SearchNearby(ctx context.Context, center models.GeoPoint, maxDistanceM float64, sortBy string) ([]models.Equipment, error) {
	return m.SearchNearbyFn(ctx, center, maxDistanceM, sortBy)
}

func (m *EquipmentRepository) ListAll(ctx context.Context, sortBy string) ([]models.Equipment, error) {
	return m.ListAllFn(ctx, sortBy)
}

func (m *EquipmentRepository) Filter(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error) {
	return m.FilterFn(ctx, q)
}

func (m *EquipmentRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Equipment, error) {
	return m.UpdateFn(ctx, id, set)
}

func (m *EquipmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteFn(ctx, id)
}

// BookingRepository is a func-field mock of repository.BookingRepository.
type BookingRepository struct {
	CreateFn                  func(ctx context.Context, booking *models.Booking) error
	FindByIDFn                func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	FindByUserFn              func(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
	FindByOwnerFn             func(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error)
	CountActiveForEquipmentFn func(ctx context.Context, equipmentID primitive.ObjectID) (int64, error)
	UpdateStatusFn            func(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error
}

func (m *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return m.CreateFn(ctx, booking)
}

func (m *BookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *BookingRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return m.FindByUserFn(ctx, userID)
}

func (m *BookingRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error) {
	return m.FindByOwnerFn(ctx, ownerID)
}

func (m *BookingRepository) CountActiveForEquipment(ctx context.Context, equipmentID primitive.ObjectID) (int64, error) {
	return m.CountActiveForEquipmentFn(ctx, equipmentID)
}

func (m *BookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error {
	return m.UpdateStatusFn(ctx, id, from, to)
}

// SessionRepository is a func-field mock of repository.SessionRepository.
type SessionRepository struct {
	CreateFn          func(ctx context.Context, session *models.Session) error
	FindBySessionIDFn func(ctx context.Context, sessionID string) (*models.Session, error)
	RotateFn          func(ctx context.Context, sessionID, newTokenHash string, expiresAt time.Time) error
	DeleteFn          func(ctx context.Context, sessionID string) error
	DeleteByUserIDFn  func(ctx context.Context, userID primitive.ObjectID) error
}

func (m *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return m.CreateFn(ctx, session)
}

func (m *SessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Session, error) {
	return m.FindBySessionIDFn(ctx, sessionID)
}

func (m *SessionRepository) Rotate(ctx context.Context, sessionID, newTokenHash string, expiresAt time.Time) error {
	return m.RotateFn(ctx, sessionID, newTokenHash, expiresAt)
}

func (m *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return m.DeleteFn(ctx, sessionID)
}

func (m *SessionRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	return m.DeleteByUserIDFn(ctx, userID)
}

// Cache is an in-memory mock of cache.Cache. Values round-trip through a
// plain map keyed by cache key; Get copies via the stored pointer.
type Cache struct {
	SetFn    func(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetFn    func(ctx context.Context, key string, dest interface{}) (bool, error)
	DeleteFn func(ctx context.Context, key string) error
}

func (m *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.SetFn == nil {
		return nil
	}
	return m.SetFn(ctx, key, value, ttl)
}

func (m *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.GetFn == nil {
		return false, nil
	}
	return m.GetFn(ctx, key, dest)
}

func (m *Cache) Delete(ctx context.Context, key string) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, key)
}

// Storage is a func-field mock of storage.Storage.
type Storage struct {
	UploadFn     func(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DeleteFn     func(ctx context.Context, key string) error
	KeyFromURLFn func(publicURL string) (string, error)
}

func (m *Storage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	return m.UploadFn(ctx, key, body, contentType)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, key)
}

func (m *Storage) KeyFromURL(publicURL string) (string, error) {
	if m.KeyFromURLFn == nil {
		return publicURL, nil
	}
	return m.KeyFromURLFn(publicURL)
}

// Geocoder is a func-field mock of geocode.Geocoder.
type Geocoder struct {
	GeocodeFn func(ctx context.Context, location string) (*geocode.Point, error)
}

func (m *Geocoder) Geocode(ctx context.Context, location string) (*geocode.Point, error) {
	return m.GeocodeFn(ctx, location)
}

// Mailer is a func-field mock of mailer.Mailer.
type Mailer struct {
	SendFn func(ctx context.Context, to string, tmpl mailer.Template, data map[string]string) error
}

func (m *Mailer) Send(ctx context.Context, to string, tmpl mailer.Template, data map[string]string) error {
	return m.SendFn(ctx, to, tmpl, data)
}

// Queue records enqueued jobs for assertions.
type Queue struct {
	Jobs      []queue.NotificationJob
	EnqueueFn func(job queue.NotificationJob) error
}

func (m *Queue) Enqueue(job queue.NotificationJob) error {
	if m.EnqueueFn != nil {
		return m.EnqueueFn(job)
	}
	m.Jobs = append(m.Jobs, job)
	return nil
}

func (m *Queue) Dequeue(ctx context.Context) (queue.NotificationJob, error) {
	return queue.NotificationJob{}, nil
}

func (m *Queue) Close() {}

func (m *Queue) Len() int { return len(m.Jobs) }

func (m *Queue) Capacity() int { return cap(m.Jobs) }

// ResetTokenStore is a func-field mock of cache.ResetTokenStore.
type ResetTokenStore struct {
	CreateFn  func(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	ConsumeFn func(ctx context.Context, tokenHash string) (string, error)
}

func (m *ResetTokenStore) Create(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, tokenHash, userID, ttl)
}

func (m *ResetTokenStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	return m.ConsumeFn(ctx, tokenHash)
}

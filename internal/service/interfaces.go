// Package service contains business logic for the application.
package service

import (
	"context"

	"krushak/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload is a file received by the HTTP layer, spooled to a local temp path.
// Services own the temp file and remove it whether or not the upload sticks.
type Upload struct {
	TempPath    string
	Filename    string
	ContentType string
}

// AuthServicer defines the interface for authentication operations.
type AuthServicer interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID primitive.ObjectID) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	OAuthLoginURL(state string) string
	OAuthCallback(ctx context.Context, code string) (*models.AuthResponse, error)
}

// UserServicer defines the interface for profile operations.
type UserServicer interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id primitive.ObjectID, req *models.ChangePasswordRequest) error
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, upload *Upload) (string, error)
	UpdateCover(ctx context.Context, id primitive.ObjectID, upload *Upload) (string, error)
	ToggleFavorite(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error)
	RecordView(ctx context.Context, id, equipmentID primitive.ObjectID) error
	PromoteToOwner(ctx context.Context, id primitive.ObjectID) error
}

// EquipmentServicer defines the interface for equipment operations.
type EquipmentServicer interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateEquipmentRequest, images []Upload, video *Upload) (*models.Equipment, error)
	Get(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*models.Equipment, error)
	Update(ctx context.Context, id, actorID primitive.ObjectID, req *models.UpdateEquipmentRequest) (*models.Equipment, error)
	AddImages(ctx context.Context, id, actorID primitive.ObjectID, images []Upload) (*models.Equipment, error)
	ReplaceVideo(ctx context.Context, id, actorID primitive.ObjectID, video *Upload) (*models.Equipment, error)
	RemoveImage(ctx context.Context, id, actorID primitive.ObjectID, imageURL string) (*models.Equipment, error)
	Delete(ctx context.Context, id, actorID primitive.ObjectID) error
	Search(ctx context.Context, q *models.SearchQuery) (*models.SearchResponse, error)
	Filter(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error)
}

// BookingServicer defines the interface for booking operations.
type BookingServicer interface {
	Create(ctx context.Context, userID primitive.ObjectID, equipmentID string) (*models.CreateBookingResponse, error)
	Cancel(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	Confirm(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	StartTracking(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	Complete(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
	ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error)
	ExportForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]byte, error)
}

// SitemapServicer builds the sitemap from live record IDs.
type SitemapServicer interface {
	Generate(ctx context.Context) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ AuthServicer      = (*AuthService)(nil)
	_ UserServicer      = (*UserService)(nil)
	_ EquipmentServicer = (*EquipmentService)(nil)
	_ BookingServicer   = (*BookingService)(nil)
	_ SitemapServicer   = (*SitemapService)(nil)
)

// Package mocks provides hand-written test doubles for the service layer.
package mocks

import (
	"context"

	"krushak/internal/models"
	"krushak/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService is a func-field mock of service.AuthServicer.
type AuthService struct {
	RegisterFn       func(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	LoginFn          func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	RefreshFn        func(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	LogoutFn         func(ctx context.Context, refreshToken string) error
	LogoutAllFn      func(ctx context.Context, userID primitive.ObjectID) error
	ForgotPasswordFn func(ctx context.Context, email string) error
	ResetPasswordFn  func(ctx context.Context, token, newPassword string) error
	OAuthLoginURLFn  func(state string) string
	OAuthCallbackFn  func(ctx context.Context, code string) (*models.AuthResponse, error)
}

func (m *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return m.RegisterFn(ctx, req)
}

func (m *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	return m.LoginFn(ctx, req)
}

func (m *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	return m.RefreshFn(ctx, refreshToken)
}

func (m *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.LogoutFn(ctx, refreshToken)
}

func (m *AuthService) LogoutAll(ctx context.Context, userID primitive.ObjectID) error {
	return m.LogoutAllFn(ctx, userID)
}

func (m *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFn(ctx, email)
}

func (m *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.ResetPasswordFn(ctx, token, newPassword)
}

func (m *AuthService) OAuthLoginURL(state string) string {
	return m.OAuthLoginURLFn(state)
}

func (m *AuthService) OAuthCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	return m.OAuthCallbackFn(ctx, code)
}

// UserService is a func-field mock of service.UserServicer.
type UserService struct {
	GetProfileFn     func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfileFn  func(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)
	ChangePasswordFn func(ctx context.Context, id primitive.ObjectID, req *models.ChangePasswordRequest) error
	UpdateAvatarFn   func(ctx context.Context, id primitive.ObjectID, upload *service.Upload) (string, error)
	UpdateCoverFn    func(ctx context.Context, id primitive.ObjectID, upload *service.Upload) (string, error)
	ToggleFavoriteFn func(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error)
	RecordViewFn     func(ctx context.Context, id, equipmentID primitive.ObjectID) error
	PromoteToOwnerFn func(ctx context.Context, id primitive.ObjectID) error
}

func (m *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.GetProfileFn(ctx, id)
}

func (m *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	return m.UpdateProfileFn(ctx, id, req)
}

func (m *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, req *models.ChangePasswordRequest) error {
	return m.ChangePasswordFn(ctx, id, req)
}

func (m *UserService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, upload *service.Upload) (string, error) {
	return m.UpdateAvatarFn(ctx, id, upload)
}

func (m *UserService) UpdateCover(ctx context.Context, id primitive.ObjectID, upload *service.Upload) (string, error) {
	return m.UpdateCoverFn(ctx, id, upload)
}

func (m *UserService) ToggleFavorite(ctx context.Context, id, equipmentID primitive.ObjectID) (bool, error) {
	return m.ToggleFavoriteFn(ctx, id, equipmentID)
}

func (m *UserService) RecordView(ctx context.Context, id, equipmentID primitive.ObjectID) error {
	return m.RecordViewFn(ctx, id, equipmentID)
}

func (m *UserService) PromoteToOwner(ctx context.Context, id primitive.ObjectID) error {
	return m.PromoteToOwnerFn(ctx, id)
}

// EquipmentService is a func-field mock of service.EquipmentServicer.
type EquipmentService struct {
	CreateFn       func(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateEquipmentRequest, images []service.Upload, video *service.Upload) (*models.Equipment, error)
	GetFn          func(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*models.Equipment, error)
	UpdateFn       func(ctx context.Context, id, actorID primitive.ObjectID, req *models.UpdateEquipmentRequest) (*models.Equipment, error)
	AddImagesFn    func(ctx context.Context, id, actorID primitive.ObjectID, images []service.Upload) (*models.Equipment, error)
	ReplaceVideoFn func(ctx context.Context, id, actorID primitive.ObjectID, video *service.Upload) (*models.Equipment, error)
	RemoveImageFn  func(ctx context.Context, id, actorID primitive.ObjectID, imageURL string) (*models.Equipment, error)
	DeleteFn       func(ctx context.Context, id, actorID primitive.ObjectID) error
	SearchFn       func(ctx context.Context, q *models.SearchQuery) (*models.SearchResponse, error)
	FilterFn       func(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error)
	ListByOwnerFn  func(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error)
}

func (m *EquipmentService) Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateEquipmentRequest, images []service.Upload, video *service.Upload) (*models.Equipment, error) {
	return m.CreateFn(ctx, ownerID, req, images, video)
}

func (m *EquipmentService) Get(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*models.Equipment, error) {
	return m.GetFn(ctx, id, viewerID)
}

func (m *EquipmentService) Update(ctx context.Context, id, actorID primitive.ObjectID, req *models.UpdateEquipmentRequest) (*models.Equipment, error) {
	return m.UpdateFn(ctx, id, actorID, req)
}

func (m *EquipmentService) AddImages(ctx context.Context, id, actorID primitive.ObjectID, images []service.Upload) (*models.Equipment, error) {
	return m.AddImagesFn(ctx, id, actorID, images)
}

func (m *EquipmentService) ReplaceVideo(ctx context.Context, id, actorID primitive.ObjectID, video *service.Upload) (*models.Equipment, error) {
	return m.ReplaceVideoFn(ctx, id, actorID, video)
}

func (m *EquipmentService) RemoveImage(ctx context.Context, id, actorID primitive.ObjectID, imageURL string) (*models.Equipment, error) {
	return m.RemoveImageFn(ctx, id, actorID, imageURL)
}

func (m *EquipmentService) Delete(ctx context.Context, id, actorID primitive.ObjectID) error {
	return m.DeleteFn(ctx, id, actorID)
}

func (m *EquipmentService) Search(ctx context.Context, q *models.SearchQuery) (*models.SearchResponse, error) {
	return m.SearchFn(ctx, q)
}

func (m *EquipmentService) Filter(ctx context.Context, q *models.FilterQuery) ([]models.Equipment, error) {
	return m.FilterFn(ctx, q)
}

func (m *EquipmentService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Equipment, error) {
	return m.ListByOwnerFn(ctx, ownerID)
}

// BookingService is a func-field mock of service.BookingServicer.
type BookingService struct {
	CreateFn         func(ctx context.Context, userID primitive.ObjectID, equipmentID string) (*models.CreateBookingResponse, error)
	CancelFn         func(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	ConfirmFn        func(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	StartTrackingFn  func(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	CompleteFn       func(ctx context.Context, bookingID, actorID primitive.ObjectID) error
	ListForUserFn    func(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
	ListForOwnerFn   func(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error)
	ExportForOwnerFn func(ctx context.Context, ownerID primitive.ObjectID) ([]byte, error)
}

func (m *BookingService) Create(ctx context.Context, userID primitive.ObjectID, equipmentID string) (*models.CreateBookingResponse, error) {
	return m.CreateFn(ctx, userID, equipmentID)
}

func (m *BookingService) Cancel(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	return m.CancelFn(ctx, bookingID, actorID)
}

func (m *BookingService) Confirm(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	return m.ConfirmFn(ctx, bookingID, actorID)
}

func (m *BookingService) StartTracking(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	return m.StartTrackingFn(ctx, bookingID, actorID)
}

func (m *BookingService) Complete(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	return m.CompleteFn(ctx, bookingID, actorID)
}

func (m *BookingService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return m.ListForUserFn(ctx, userID)
}

func (m *BookingService) ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error) {
	return m.ListForOwnerFn(ctx, ownerID)
}

func (m *BookingService) ExportForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]byte, error) {
	return m.ExportForOwnerFn(ctx, ownerID)
}

// SitemapService is a func-field mock of service.SitemapServicer.
type SitemapService struct {
	GenerateFn func(ctx context.Context) ([]byte, error)
}

func (m *SitemapService) Generate(ctx context.Context) ([]byte, error) {
	return m.GenerateFn(ctx)
}

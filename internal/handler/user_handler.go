package handler

import (
	"context"
	"mime/multipart"

	"krushak/internal/middleware"
	"krushak/internal/models"
	"krushak/internal/service"
	"krushak/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService service.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.Response
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "profile fetched successfully", user)
}

// UpdateMe updates mutable profile fields.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid profile payload", bindingErrors(err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "profile updated successfully", user)
}

// ChangePassword verifies the old password before setting the new one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", bindingErrors(err))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "password changed successfully", nil)
}

// UploadAvatar replaces the profile avatar.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	h.uploadMedia(c, "avatar", h.userService.UpdateAvatar)
}

// UploadCover replaces the profile cover image.
func (h *UserHandler) UploadCover(c *gin.Context) {
	h.uploadMedia(c, "coverImage", h.userService.UpdateCover)
}

type mediaUpdateFn func(ctx context.Context, id primitive.ObjectID, upload *service.Upload) (string, error)

func (h *UserHandler) uploadMedia(c *gin.Context, field string, update mediaUpdateFn) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	fh, err := c.FormFile(field)
	if err != nil {
		response.BadRequest(c, "file field "+field+" is required")
		return
	}
	if !validContentTypes([]*multipart.FileHeader{fh}, imageContentTypes) {
		response.BadRequest(c, "only jpeg, png and webp images are accepted")
		return
	}

	upload, err := spoolUpload(c, fh)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := update(c.Request.Context(), userID, upload)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, field+" updated successfully", gin.H{"url": url})
}

// ToggleFavorite flips an equipment in or out of the favorites set.
func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	equipmentID, err := primitive.ObjectIDFromHex(c.Param("equipmentId"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}

	isFavorite, err := h.userService.ToggleFavorite(c.Request.Context(), userID, equipmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "equipment removed from favorites"
	if isFavorite {
		msg = "equipment added to favorites"
	}
	response.Success(c, msg, gin.H{"isFavorite": isFavorite})
}

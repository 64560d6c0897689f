package handler

import (
	"encoding/json"
	"mime/multipart"

	"krushak/internal/middleware"
	"krushak/internal/models"
	"krushak/internal/service"
	"krushak/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentHandler handles equipment endpoints.
type EquipmentHandler struct {
	equipmentService service.EquipmentServicer
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(equipmentService service.EquipmentServicer) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

// Create godoc
// @Summary Create an equipment listing
// @Description Multipart form: a "data" part with the JSON payload, up to 5 "images" files and one "video" file.
// @Tags equipment
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response{data=models.Equipment}
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /equipment [post]
func (h *EquipmentHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	req, ok := h.bindCreateForm(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	imageFiles := form.File["images"]
	if len(imageFiles) > models.MaxEquipmentImages {
		response.BadRequest(c, "equipment can have at most 5 images")
		return
	}
	if !validContentTypes(imageFiles, imageContentTypes) {
		response.BadRequest(c, "only jpeg, png and webp images are accepted")
		return
	}

	var videoFile *multipart.FileHeader
	if videos := form.File["video"]; len(videos) > 0 {
		videoFile = videos[0]
		if !validContentTypes(videos[:1], videoContentTypes) {
			response.BadRequest(c, "only mp4 and webm videos are accepted")
			return
		}
	}

	images, err := spoolUploads(c, imageFiles)
	if err != nil {
		respondError(c, err)
		return
	}

	var video *service.Upload
	if videoFile != nil {
		video, err = spoolUpload(c, videoFile)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	eq, err := h.equipmentService.Create(c.Request.Context(), userID, req, images, video)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "equipment listed successfully", eq)
}

// bindCreateForm decodes and validates the "data" part of the create form.
func (h *EquipmentHandler) bindCreateForm(c *gin.Context) (*models.CreateEquipmentRequest, bool) {
	raw := c.PostForm("data")
	if raw == "" {
		response.BadRequest(c, "form field data is required")
		return nil, false
	}

	var req models.CreateEquipmentRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		response.BadRequest(c, "invalid equipment payload")
		return nil, false
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		response.ValidationError(c, "invalid equipment payload", bindingErrors(err))
		return nil, false
	}
	return &req, true
}

// Get returns one listing; a logged-in viewer's visit lands in their
// recently-viewed list.
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("equipmentId"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}

	eq, err := h.equipmentService.Get(c.Request.Context(), id, middleware.OptionalUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "equipment fetched successfully", eq)
}

// Search godoc
// @Summary Search equipment around a location
// @Tags equipment
// @Produce json
// @Param location query string false "Free-text location"
// @Param radius query number false "Radius in km (default 50)"
// @Param sortBy query string false "latest, price or availability"
// @Success 200 {object} response.Response{data=models.SearchResponse}
// @Router /equipment [get]
func (h *EquipmentHandler) Search(c *gin.Context) {
	var q models.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, "invalid search query", bindingErrors(err))
		return
	}

	resp, err := h.equipmentService.Search(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "equipment fetched successfully", resp)
}

// Filter returns listings matching attribute filters.
func (h *EquipmentHandler) Filter(c *gin.Context) {
	var q models.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, "invalid filter query", bindingErrors(err))
		return
	}

	items, err := h.equipmentService.Filter(c.Request.Context(), &q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "equipment fetched successfully", items)
}

// Mine lists the authenticated owner's equipment.
func (h *EquipmentHandler) Mine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	items, err := h.equipmentService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "equipment fetched successfully", items)
}

// Update applies a partial update to an owned listing.
func (h *EquipmentHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("equipmentId"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}

	var req models.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid equipment payload", bindingErrors(err))
		return
	}

	eq, err := h.equipmentService.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "equipment updated successfully", eq)
}

// AddImages appends gallery images up to the cap.
func (h *EquipmentHandler) AddImages(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("equipmentId"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}
	imageFiles := form.File["images"]
	if len(imageFiles) == 0 {
		response.BadRequest(c, "at least one image file is required")
		return
	}
	if !validContentTypes(imageFiles, imageContentTypes) {
		response.BadRequest(c, "only jpeg, png and webp images are accepted")
		return
	}

	images, err := spoolUploads(c, imageFiles)
	if err != nil {
		respondError(c, err)
		return
	}

	eq, err := h.equipmentService.AddImages(c.Request.Context(), id, userID, images)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "images added successfully", eq)
}

// ReplaceVideo swaps the demo video.
func (h *EquipmentHandler) ReplaceVideo(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("equipmentId"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}

	fh, err := c.FormFile("video")
	if err != nil {
		response.BadRequest(c, "file field video is required")
		return
	}
	if !validContentTypes([]*multipart.FileHeader{fh}, videoContentTypes) {
		response.BadRequest(c, "only mp4 and webm videos are accepted")
		return
	}

	video, err := spoolUpload(c, fh)
	if err != nil {
		respondError(c, err)
		return
	}

	eq, err := h.equipmentService.ReplaceVideo(c.Request.Context(), id, userID, video)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "video updated successfully", eq)
}

// RemoveImage deletes a single gallery image by URL.
func (h *EquipmentHandler) RemoveImage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("equipmentId"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}

	var req models.RemoveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", bindingErrors(err))
		return
	}

	eq, err := h.equipmentService.RemoveImage(c.Request.Context(), id, userID, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "image removed successfully", eq)
}

// Delete removes a listing and its media.
func (h *EquipmentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("equipmentId"))
	if err != nil {
		response.BadRequest(c, "invalid equipment id")
		return
	}

	if err := h.equipmentService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "equipment deleted successfully", nil)
}

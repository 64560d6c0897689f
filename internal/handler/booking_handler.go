package handler

import (
	"context"
	"fmt"
	"time"

	"krushak/internal/middleware"
	"krushak/internal/models"
	"krushak/internal/service"
	"krushak/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingHandler handles booking endpoints.
type BookingHandler struct {
	bookingService service.BookingServicer
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService service.BookingServicer) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create godoc
// @Summary Book equipment
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Response{data=models.CreateBookingResponse}
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid booking payload", bindingErrors(err))
		return
	}

	resp, err := h.bookingService.Create(c.Request.Context(), userID, req.EquipmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "booking created successfully", resp)
}

// ListMine returns the renter's bookings, newest first.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	bookings, err := h.bookingService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "bookings fetched successfully", bookings)
}

// ListOwner returns bookings made against the caller's equipment.
func (h *BookingHandler) ListOwner(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	bookings, err := h.bookingService.ListForOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "bookings fetched successfully", bookings)
}

// ExportOwner streams the owner's bookings as an xlsx workbook.
func (h *BookingHandler) ExportOwner(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	workbook, err := h.bookingService.ExportForOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// Cancel is the renter cancelling their booking.
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.bookingService.Cancel, "booking cancelled successfully")
}

// Confirm is the owner accepting a pending booking.
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookingService.Confirm, "booking confirmed successfully")
}

// StartTracking marks the equipment as handed over.
func (h *BookingHandler) StartTracking(c *gin.Context) {
	h.transition(c, h.bookingService.StartTracking, "booking is now tracking")
}

// Complete marks the equipment as returned.
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.bookingService.Complete, "booking completed successfully")
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, bookingID, actorID primitive.ObjectID) error, msg string) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	if err := fn(c.Request.Context(), bookingID, userID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, msg, nil)
}

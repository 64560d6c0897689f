package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	// StatusPending is the initial state after creation.
	StatusPending BookingStatus = "Pending"
	// StatusConfirmed means the owner accepted the booking.
	StatusConfirmed BookingStatus = "Confirmed"
	// StatusTracking means the equipment has been handed over to the renter.
	StatusTracking BookingStatus = "Tracking"
	// StatusCompleted means the equipment was returned. Terminal.
	StatusCompleted BookingStatus = "Completed"
	// StatusCancelled is reachable from Pending or Confirmed. Terminal.
	StatusCancelled BookingStatus = "Cancelled"
)

// ActiveStatuses are the non-terminal states. A (user, equipment) pair may
// hold at most one booking in any of these states.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusTracking}

// IsActive reports whether the status counts against the one-active-booking rule.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusTracking
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusTracking || next == StatusCancelled
	case StatusTracking:
		return next == StatusCompleted
	default:
		return false
	}
}

// Booking represents a rental booking.
type Booking struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	EquipmentID primitive.ObjectID `json:"equipmentId" bson:"equipmentId"`
	// OwnerID is denormalized from the equipment at creation time.
	OwnerID   primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Status    BookingStatus      `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Populated by list pipelines, not stored.
	Equipment *Equipment `json:"equipment,omitempty" bson:"equipment,omitempty"`
}

// CreateBookingRequest is the payload for booking equipment.
type CreateBookingRequest struct {
	EquipmentID string `json:"equipmentId" binding:"required"`
}

// CreateBookingResponse carries the new booking ID plus the owner's contact,
// which the renter needs to coordinate the handover.
type CreateBookingResponse struct {
	BookingID  primitive.ObjectID `json:"bookingId"`
	OwnerName  string             `json:"ownerName"`
	OwnerPhone string             `json:"ownerPhone"`
}

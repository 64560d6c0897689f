package service

import (
	"context"
	"log"

	apperrors "krushak/internal/errors"
	"krushak/internal/export"
	"krushak/internal/mailer"
	"krushak/internal/metrics"
	"krushak/internal/models"
	"krushak/internal/queue"
	"krushak/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService implements BookingServicer.
type BookingService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	queue         queue.Queue
	adminEmail    string
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	q queue.Queue,
	adminEmail string,
) *BookingService {
	return &BookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		queue:         q,
		adminEmail:    adminEmail,
	}
}

// Create books equipment for a user. The unique index underneath makes the
// one-active-booking rule hold even when two requests race.
func (s *BookingService) Create(ctx context.Context, userID primitive.ObjectID, equipmentID string) (*models.CreateBookingResponse, error) {
	eqID, err := primitive.ObjectIDFromHex(equipmentID)
	if err != nil {
		return nil, apperrors.ErrEquipmentNotFound
	}

	eq, err := s.equipmentRepo.FindByID(ctx, eqID)
	if err != nil {
		return nil, err
	}
	if !eq.Availability {
		return nil, apperrors.ErrNotAvailable
	}
	if eq.Owner == userID {
		return nil, apperrors.ErrOwnBookingForbidden
	}

	booking := &models.Booking{
		UserID:      userID,
		EquipmentID: eqID,
		OwnerID:     eq.Owner,
		Status:      models.StatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	metrics.IncBooking(string(models.StatusPending))

	owner, err := s.userRepo.FindByID(ctx, eq.Owner)
	if err != nil {
		return nil, err
	}
	renter, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := map[string]string{
		"EquipmentName": eq.Name,
		"OwnerName":     owner.DisplayName,
		"RenterName":    renter.DisplayName,
	}
	s.notify(renter.Email, mailer.TemplateBookingRequested, data)
	s.notify(owner.Email, mailer.TemplateBookingRequested, data)
	s.notify(s.adminEmail, mailer.TemplateBookingRequested, data)

	return &models.CreateBookingResponse{
		BookingID:  booking.ID,
		OwnerName:  owner.DisplayName,
		OwnerPhone: owner.Phone,
	}, nil
}

// Cancel is the renter's move: allowed from Pending or Confirmed.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != actorID {
		return apperrors.ErrNotBookingUser
	}
	return s.transition(ctx, booking, models.StatusCancelled, mailer.TemplateBookingCancelled)
}

// Confirm is the owner accepting a pending booking.
func (s *BookingService) Confirm(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	return s.ownerTransition(ctx, bookingID, actorID, models.StatusConfirmed, mailer.TemplateBookingConfirmed)
}

// StartTracking marks the equipment as handed over to the renter.
func (s *BookingService) StartTracking(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	return s.ownerTransition(ctx, bookingID, actorID, models.StatusTracking, mailer.TemplateBookingTracking)
}

// Complete marks the equipment as returned. Terminal.
func (s *BookingService) Complete(ctx context.Context, bookingID, actorID primitive.ObjectID) error {
	return s.ownerTransition(ctx, bookingID, actorID, models.StatusCompleted, mailer.TemplateBookingCompleted)
}

func (s *BookingService) ownerTransition(ctx context.Context, bookingID, actorID primitive.ObjectID, to models.BookingStatus, tmpl mailer.Template) error {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.OwnerID != actorID {
		return apperrors.ErrNotBookingOwner
	}
	return s.transition(ctx, booking, to, tmpl)
}

// transition moves a booking through the status machine and notifies both
// parties. The CAS inside UpdateStatus handles races with other transitions.
func (s *BookingService) transition(ctx context.Context, booking *models.Booking, to models.BookingStatus, tmpl mailer.Template) error {
	if !booking.Status.CanTransitionTo(to) {
		return apperrors.ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, to); err != nil {
		return err
	}
	metrics.IncBooking(string(to))

	data := map[string]string{}
	if eq, err := s.equipmentRepo.FindByID(ctx, booking.EquipmentID); err == nil {
		data["EquipmentName"] = eq.Name
	}

	if renter, err := s.userRepo.FindByID(ctx, booking.UserID); err == nil {
		data["RenterName"] = renter.DisplayName
		s.notify(renter.Email, tmpl, data)
	}
	if owner, err := s.userRepo.FindByID(ctx, booking.OwnerID); err == nil {
		data["OwnerName"] = owner.DisplayName
		s.notify(owner.Email, tmpl, data)
	}

	return nil
}

// ListForUser returns a renter's bookings, newest first.
func (s *BookingService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return s.bookingRepo.FindByUser(ctx, userID)
}

// ListForOwner returns the bookings made against an owner's equipment.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error) {
	return s.bookingRepo.FindByOwner(ctx, ownerID)
}

// ExportForOwner renders the owner's booking history as an xlsx workbook.
func (s *BookingService) ExportForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]byte, error) {
	bookings, err := s.bookingRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return export.BookingsWorkbook(bookings)
}

// notify hands a notification to the background queue. Delivery is
// best-effort; a full queue only logs.
func (s *BookingService) notify(to string, tmpl mailer.Template, data map[string]string) {
	if to == "" {
		return
	}
	if err := s.queue.Enqueue(queue.NotificationJob{To: to, Template: tmpl, Data: data}); err != nil {
		log.Printf("failed to enqueue %s notification: %v", tmpl, err)
	}
}

package service_test

import (
	"context"
	"testing"

	apperrors "krushak/internal/errors"
	"krushak/internal/mailer"
	"krushak/internal/models"
	"krushak/internal/repository/mocks"
	"krushak/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingFixture struct {
	bookingRepo   *mocks.BookingRepository
	equipmentRepo *mocks.EquipmentRepository
	userRepo      *mocks.UserRepository
	queue         *mocks.Queue
	svc           *service.BookingService

	ownerID  primitive.ObjectID
	renterID primitive.ObjectID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		bookingRepo:   &mocks.BookingRepository{},
		equipmentRepo: &mocks.EquipmentRepository{},
		userRepo:      &mocks.UserRepository{},
		queue:         &mocks.Queue{},
		ownerID:       primitive.NewObjectID(),
		renterID:      primitive.NewObjectID(),
	}
	f.svc = service.NewBookingService(f.bookingRepo, f.equipmentRepo, f.userRepo, f.queue, "admin@krushak.in")

	f.userRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
		switch id {
		case f.ownerID:
			return &models.User{ID: id, DisplayName: "Ramesh", Email: "ramesh@example.com", Phone: "+919876543210"}, nil
		case f.renterID:
			return &models.User{ID: id, DisplayName: "Kiran", Email: "kiran@example.com"}, nil
		}
		return nil, apperrors.ErrUserNotFound
	}
	return f
}

func (f *bookingFixture) equipment(available bool) *models.Equipment {
	return &models.Equipment{
		ID:           primitive.NewObjectID(),
		Name:         "Mahindra 575 DI",
		Owner:        f.ownerID,
		Availability: available,
	}
}

func TestBookingService_Create(t *testing.T) {
	f := newBookingFixture(t)
	eq := f.equipment(true)

	f.equipmentRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
		return eq, nil
	}
	f.bookingRepo.CreateFn = func(ctx context.Context, booking *models.Booking) error {
		booking.ID = primitive.NewObjectID()
		assert.Equal(t, models.StatusPending, booking.Status)
		assert.Equal(t, f.ownerID, booking.OwnerID)
		return nil
	}

	resp, err := f.svc.Create(context.Background(), f.renterID, eq.ID.Hex())
	require.NoError(t, err)

	assert.False(t, resp.BookingID.IsZero())
	assert.Equal(t, "Ramesh", resp.OwnerName)
	assert.Equal(t, "+919876543210", resp.OwnerPhone)

	// Renter, owner and admin each get a mail.
	require.Len(t, f.queue.Jobs, 3)
	recipients := []string{f.queue.Jobs[0].To, f.queue.Jobs[1].To, f.queue.Jobs[2].To}
	assert.ElementsMatch(t, []string{"kiran@example.com", "ramesh@example.com", "admin@krushak.in"}, recipients)
	for _, job := range f.queue.Jobs {
		assert.Equal(t, mailer.TemplateBookingRequested, job.Template)
		assert.Equal(t, "Mahindra 575 DI", job.Data["EquipmentName"])
	}
}

func TestBookingService_Create_Rejections(t *testing.T) {
	t.Run("bad equipment id", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.svc.Create(context.Background(), f.renterID, "not-a-hex-id")
		assert.ErrorIs(t, err, apperrors.ErrEquipmentNotFound)
	})

	t.Run("equipment unavailable", func(t *testing.T) {
		f := newBookingFixture(t)
		eq := f.equipment(false)
		f.equipmentRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
			return eq, nil
		}
		_, err := f.svc.Create(context.Background(), f.renterID, eq.ID.Hex())
		assert.ErrorIs(t, err, apperrors.ErrNotAvailable)
	})

	t.Run("owner booking own equipment", func(t *testing.T) {
		f := newBookingFixture(t)
		eq := f.equipment(true)
		f.equipmentRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
			return eq, nil
		}
		_, err := f.svc.Create(context.Background(), f.ownerID, eq.ID.Hex())
		assert.ErrorIs(t, err, apperrors.ErrOwnBookingForbidden)
	})

	t.Run("duplicate active booking", func(t *testing.T) {
		f := newBookingFixture(t)
		eq := f.equipment(true)
		f.equipmentRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
			return eq, nil
		}
		f.bookingRepo.CreateFn = func(ctx context.Context, booking *models.Booking) error {
			return apperrors.ErrAlreadyBooked
		}
		_, err := f.svc.Create(context.Background(), f.renterID, eq.ID.Hex())
		assert.ErrorIs(t, err, apperrors.ErrAlreadyBooked)
	})
}

func TestBookingService_Confirm(t *testing.T) {
	f := newBookingFixture(t)
	eq := f.equipment(true)
	booking := &models.Booking{
		ID:          primitive.NewObjectID(),
		UserID:      f.renterID,
		EquipmentID: eq.ID,
		OwnerID:     f.ownerID,
		Status:      models.StatusPending,
	}

	f.bookingRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
		return booking, nil
	}
	f.equipmentRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
		return eq, nil
	}
	var gotFrom, gotTo models.BookingStatus
	f.bookingRepo.UpdateStatusFn = func(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error {
		gotFrom, gotTo = from, to
		return nil
	}

	require.NoError(t, f.svc.Confirm(context.Background(), booking.ID, f.ownerID))

	assert.Equal(t, models.StatusPending, gotFrom)
	assert.Equal(t, models.StatusConfirmed, gotTo)

	// Both parties hear about the confirmation.
	require.Len(t, f.queue.Jobs, 2)
	assert.Equal(t, mailer.TemplateBookingConfirmed, f.queue.Jobs[0].Template)
	assert.ElementsMatch(t, []string{"kiran@example.com", "ramesh@example.com"},
		[]string{f.queue.Jobs[0].To, f.queue.Jobs[1].To})
}

func TestBookingService_Confirm_NotOwner(t *testing.T) {
	f := newBookingFixture(t)
	booking := &models.Booking{
		ID:      primitive.NewObjectID(),
		UserID:  f.renterID,
		OwnerID: f.ownerID,
		Status:  models.StatusPending,
	}
	f.bookingRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
		return booking, nil
	}

	err := f.svc.Confirm(context.Background(), booking.ID, f.renterID)
	assert.ErrorIs(t, err, apperrors.ErrNotBookingOwner)
}

func TestBookingService_Cancel(t *testing.T) {
	f := newBookingFixture(t)
	eq := f.equipment(true)

	newBooking := func(status models.BookingStatus) *models.Booking {
		return &models.Booking{
			ID:          primitive.NewObjectID(),
			UserID:      f.renterID,
			EquipmentID: eq.ID,
			OwnerID:     f.ownerID,
			Status:      status,
		}
	}
	f.equipmentRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
		return eq, nil
	}
	f.bookingRepo.UpdateStatusFn = func(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error {
		return nil
	}

	t.Run("renter cancels pending", func(t *testing.T) {
		booking := newBooking(models.StatusPending)
		f.bookingRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			return booking, nil
		}
		assert.NoError(t, f.svc.Cancel(context.Background(), booking.ID, f.renterID))
	})

	t.Run("only the renter may cancel", func(t *testing.T) {
		booking := newBooking(models.StatusPending)
		f.bookingRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			return booking, nil
		}
		err := f.svc.Cancel(context.Background(), booking.ID, f.ownerID)
		assert.ErrorIs(t, err, apperrors.ErrNotBookingUser)
	})

	t.Run("tracking bookings cannot be cancelled", func(t *testing.T) {
		booking := newBooking(models.StatusTracking)
		f.bookingRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			return booking, nil
		}
		err := f.svc.Cancel(context.Background(), booking.ID, f.renterID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestBookingService_FullLifecycle(t *testing.T) {
	f := newBookingFixture(t)
	eq := f.equipment(true)
	booking := &models.Booking{
		ID:          primitive.NewObjectID(),
		UserID:      f.renterID,
		EquipmentID: eq.ID,
		OwnerID:     f.ownerID,
		Status:      models.StatusPending,
	}

	f.bookingRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
		return booking, nil
	}
	f.equipmentRepo.FindByIDFn = func(ctx context.Context, id primitive.ObjectID) (*models.Equipment, error) {
		return eq, nil
	}
	f.bookingRepo.UpdateStatusFn = func(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus) error {
		booking.Status = to
		return nil
	}

	ctx := context.Background()
	require.NoError(t, f.svc.Confirm(ctx, booking.ID, f.ownerID))
	require.NoError(t, f.svc.StartTracking(ctx, booking.ID, f.ownerID))
	require.NoError(t, f.svc.Complete(ctx, booking.ID, f.ownerID))
	assert.Equal(t, models.StatusCompleted, booking.Status)

	// Completed is terminal.
	err := f.svc.Confirm(ctx, booking.ID, f.ownerID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestBookingService_ExportForOwner(t *testing.T) {
	f := newBookingFixture(t)
	f.bookingRepo.FindByOwnerFn = func(ctx context.Context, ownerID primitive.ObjectID) ([]models.Booking, error) {
		return []models.Booking{
			{ID: primitive.NewObjectID(), Status: models.StatusCompleted, Equipment: &models.Equipment{Name: "Mahindra 575 DI"}},
		}, nil
	}

	data, err := f.svc.ExportForOwner(context.Background(), f.ownerID)
	require.NoError(t, err)
	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

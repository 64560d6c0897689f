package repository

import (
	"context"
	"testing"

	apperrors "krushak/internal/errors"
	"krushak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testBooking(userID, equipmentID, ownerID primitive.ObjectID) *models.Booking {
	return &models.Booking{
		UserID:      userID,
		EquipmentID: equipmentID,
		OwnerID:     ownerID,
		Status:      models.StatusPending,
	}
}

func TestBookingRepository_Create(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewBookingRepository(tdb.Database)
	ctx := context.Background()

	t.Run("successfully creates booking", func(t *testing.T) {
		tdb.ClearCollection(t, "bookings")

		booking := testBooking(primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())
		err := repo.Create(ctx, booking)

		require.NoError(t, err)
		assert.False(t, booking.ID.IsZero())
		assert.Equal(t, models.StatusPending, booking.Status)
	})

	t.Run("one active booking per user and equipment", func(t *testing.T) {
		tdb.ClearCollection(t, "bookings")

		userID, eqID, ownerID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		require.NoError(t, repo.Create(ctx, testBooking(userID, eqID, ownerID)))

		// The partial unique index rejects the second active booking.
		err := repo.Create(ctx, testBooking(userID, eqID, ownerID))
		assert.ErrorIs(t, err, apperrors.ErrAlreadyBooked)
	})

	t.Run("terminal booking does not block a new one", func(t *testing.T) {
		tdb.ClearCollection(t, "bookings")

		userID, eqID, ownerID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		first := testBooking(userID, eqID, ownerID)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.UpdateStatus(ctx, first.ID, models.StatusPending, models.StatusCancelled))

		err := repo.Create(ctx, testBooking(userID, eqID, ownerID))
		assert.NoError(t, err)
	})

	t.Run("same user may book different equipment", func(t *testing.T) {
		tdb.ClearCollection(t, "bookings")

		userID, ownerID := primitive.NewObjectID(), primitive.NewObjectID()
		require.NoError(t, repo.Create(ctx, testBooking(userID, primitive.NewObjectID(), ownerID)))
		require.NoError(t, repo.Create(ctx, testBooking(userID, primitive.NewObjectID(), ownerID)))
	})
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewBookingRepository(tdb.Database)
	ctx := context.Background()

	t.Run("transitions with matching current status", func(t *testing.T) {
		tdb.ClearCollection(t, "bookings")

		booking := testBooking(primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(t, repo.Create(ctx, booking))

		require.NoError(t, repo.UpdateStatus(ctx, booking.ID, models.StatusPending, models.StatusConfirmed))

		found, err := repo.FindByID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, found.Status)
	})

	t.Run("stale transition loses the race", func(t *testing.T) {
		tdb.ClearCollection(t, "bookings")

		booking := testBooking(primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(t, repo.Create(ctx, booking))
		require.NoError(t, repo.UpdateStatus(ctx, booking.ID, models.StatusPending, models.StatusConfirmed))

		// Second caller still thinks the booking is Pending.
		err := repo.UpdateStatus(ctx, booking.ID, models.StatusPending, models.StatusCancelled)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("missing booking", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, primitive.NewObjectID(), models.StatusPending, models.StatusConfirmed)
		assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	})
}

func TestBookingRepository_Lists(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewBookingRepository(tdb.Database)
	equipmentRepo := NewEquipmentRepository(tdb.Database)
	ctx := context.Background()

	ownerID := primitive.NewObjectID()
	renterID := primitive.NewObjectID()

	eq := testEquipment("Mahindra 575 DI", ownerID, 69.6669, 23.2420)
	require.NoError(t, equipmentRepo.Create(ctx, eq))

	booking := testBooking(renterID, eq.ID, ownerID)
	require.NoError(t, repo.Create(ctx, booking))

	t.Run("by user joins equipment", func(t *testing.T) {
		bookings, err := repo.FindByUser(ctx, renterID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		require.NotNil(t, bookings[0].Equipment)
		assert.Equal(t, "Mahindra 575 DI", bookings[0].Equipment.Name)
	})

	t.Run("by owner", func(t *testing.T) {
		bookings, err := repo.FindByOwner(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, renterID, bookings[0].UserID)
	})

	t.Run("empty result is a slice, not nil", func(t *testing.T) {
		bookings, err := repo.FindByUser(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.NotNil(t, bookings)
		assert.Empty(t, bookings)
	})
}

func TestBookingRepository_CountActiveForEquipment(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewBookingRepository(tdb.Database)
	ctx := context.Background()

	eqID, ownerID := primitive.NewObjectID(), primitive.NewObjectID()

	active := testBooking(primitive.NewObjectID(), eqID, ownerID)
	require.NoError(t, repo.Create(ctx, active))

	done := testBooking(primitive.NewObjectID(), eqID, ownerID)
	require.NoError(t, repo.Create(ctx, done))
	require.NoError(t, repo.UpdateStatus(ctx, done.ID, models.StatusPending, models.StatusCancelled))

	count, err := repo.CountActiveForEquipment(ctx, eqID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "terminal bookings do not count")
}

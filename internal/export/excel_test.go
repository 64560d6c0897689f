package export

import (
	"bytes"
	"testing"
	"time"

	"krushak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookingsWorkbook(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	bookings := []models.Booking{
		{
			ID:          primitive.NewObjectID(),
			UserID:      primitive.NewObjectID(),
			EquipmentID: primitive.NewObjectID(),
			Status:      models.StatusCompleted,
			CreatedAt:   created,
			UpdatedAt:   created.Add(48 * time.Hour),
			Equipment:   &models.Equipment{Name: "Mahindra 575 DI"},
		},
		{
			// No joined equipment, falls back to the ID.
			ID:          primitive.NewObjectID(),
			UserID:      primitive.NewObjectID(),
			EquipmentID: primitive.NewObjectID(),
			Status:      models.StatusPending,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}

	data, err := BookingsWorkbook(bookings)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Bookings"}, f.GetSheetList())

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Booking ID", "Equipment", "Renter ID", "Status", "Created", "Updated"}, rows[0])

	assert.Equal(t, bookings[0].ID.Hex(), rows[1][0])
	assert.Equal(t, "Mahindra 575 DI", rows[1][1])
	assert.Equal(t, "Completed", rows[1][3])
	assert.Equal(t, "2026-08-01 10:30", rows[1][4])

	assert.Equal(t, bookings[1].EquipmentID.Hex(), rows[2][1])
	assert.Equal(t, "Pending", rows[2][3])
}

func TestBookingsWorkbook_Empty(t *testing.T) {
	data, err := BookingsWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row only")
}

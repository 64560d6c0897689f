// Package export renders report workbooks.
package export

import (
	"bytes"
	"fmt"

	"krushak/internal/models"

	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

// BookingsWorkbook renders a booking list as an xlsx workbook, one row per
// booking with the joined equipment name when available.
func BookingsWorkbook(bookings []models.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Booking ID", "Equipment", "Renter ID", "Status", "Created", "Updated"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(bookingsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, b := range bookings {
		equipmentName := b.EquipmentID.Hex()
		if b.Equipment != nil {
			equipmentName = b.Equipment.Name
		}
		values := []interface{}{
			b.ID.Hex(),
			equipmentName,
			b.UserID.Hex(),
			string(b.Status),
			b.CreatedAt.Format("2006-01-02 15:04"),
			b.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(bookingsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

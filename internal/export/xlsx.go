package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// RenderUsersXLSX renders the admin user export as a spreadsheet.
func RenderUsersXLSX(users []*models.User) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Name", "Email", "Role", "City", "Mobile", "Student ID", "Verified", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, user := range users {
		row := []interface{}{
			user.FullName(),
			user.Email,
			string(user.Role),
			derefOr(user.City, ""),
			derefOr(user.MobileNo, ""),
			user.StudentID,
			strconv.FormatBool(user.Verified),
			user.CreatedAt.Format("2006-01-02"),
		}
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render users xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

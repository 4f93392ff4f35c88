// Package export writes user tables to XLSX files and Google Sheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/addalive/admin_console/internal/models"
)

const sheetName = "Users"

// Header is the first row of every export.
var Header = []string{"ID", "Username", "Email", "Role", "Activity Zone", "Zone Expires", "Stars", "Diamonds", "Coins", "Joined"}

// Rows flattens users into cells in Header order.
func Rows(users []models.User) [][]any {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		joined := ""
		if u.CreatedAt != nil {
			joined = u.CreatedAt.UTC().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []any{
			u.ID, u.Username, u.Email, u.Role,
			u.Zone.Zone, u.Zone.Expire,
			u.Stats.Stars, u.Stats.Diamonds, u.Stats.Coins,
			joined,
		})
	}
	return rows
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, users []models.User) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, row := range Rows(users) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Package reports produces downloadable views of the project register.
package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"solarline/solar-portal-backend/internal/projects"
)

var registerColumns = []string{
	"Project Number",
	"Name",
	"Location",
	"System Type",
	"Size (kW)",
	"Inverter",
	"PV Panel",
	"Battery",
	"Technical Officer",
	"Clearance Status",
	"Installation Status",
	"Connection Status",
	"Overall Status",
	"Created",
}

// RegisterExporter writes the project register as an Excel workbook.
type RegisterExporter struct {
	sheetName string
}

func NewRegisterExporter() *RegisterExporter {
	return &RegisterExporter{sheetName: "Projects"}
}

// Export writes the workbook to w.
func (e *RegisterExporter) Export(items []projects.ListItem, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", e.sheetName)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range registerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(e.sheetName, cell, col)
		file.SetCellStyle(e.sheetName, cell, cell, headerStyle)
	}

	file.SetPanes(e.sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for rowIdx, item := range items {
		row := e.registerRow(item)
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			file.SetCellValue(e.sheetName, cell, val)
		}
	}

	if len(items) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(registerColumns), len(items)+1)
		file.AutoFilter(e.sheetName, "A1:"+last, nil)
	}

	_, err = file.WriteTo(w)
	return err
}

func (e *RegisterExporter) registerRow(item projects.ListItem) []any {
	officer := ""
	if item.Officer != nil {
		officer = item.Officer.Name
	}
	return []any{
		item.ProjectNumber,
		item.Name,
		item.Location,
		string(item.SystemType),
		item.Size,
		item.Inverter,
		item.PVPanel,
		item.Battery,
		officer,
		string(item.Clearance.Status),
		string(item.Installation.Status),
		string(item.Connection.Status),
		string(item.OverallStatus),
		item.CreatedAt.Format(time.RFC3339),
	}
}

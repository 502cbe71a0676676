// Package export writes provider listings to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mark3labs/handyhire/internal/api"
)

// SheetName is the worksheet holding the provider table.
const SheetName = "Providers"

// Columns are the header labels, in order.
var Columns = []string{"ID", "Name", "Service type", "Experience (years)", "Working hours", "Rate", "Rating"}

var columnWidths = []float64{14, 24, 14, 18, 22, 10, 10}

// ProviderRow pairs a provider with its fetched rating.
type ProviderRow struct {
	Provider api.Provider
	Rating   float64
}

// WriteProviders writes rows as an .xlsx workbook to w.
func WriteProviders(w io.Writer, rows []ProviderRow) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// SaveProviders writes rows as an .xlsx workbook at path.
func SaveProviders(path string, rows []ProviderRow) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(rows []ProviderRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating number style: %w", err)
	}

	for i, col := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			_ = f.Close()
			return nil, err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, name, name, columnWidths[i])
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	_ = f.SetCellStyle(SheetName, "A1", last, header)

	for r, row := range rows {
		p := row.Provider
		values := []any{
			p.ID,
			p.Name,
			p.ServiceType,
			p.Experience,
			p.WorkingFrom + " - " + p.WorkingTo,
			p.RateCharge,
			row.Rating,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing row %d: %w", r+2, err)
		}
	}

	if len(rows) > 0 {
		from, _ := excelize.CoordinatesToCellName(6, 2)
		to, _ := excelize.CoordinatesToCellName(7, len(rows)+1)
		_ = f.SetCellStyle(SheetName, from, to, money)
		_ = f.AutoFilter(SheetName, "A1:"+last, nil)
	}
	_ = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return f, nil
}

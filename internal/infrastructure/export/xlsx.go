// Package export renders the shift mirror as a spreadsheet for payroll.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

const sheetName = "Espelho"

var header = []string{"Data", "Hospital", "Setor", "Entrada", "Saída", "Situação", "Código"}

// WriteShiftMirror writes one row per shift, in the order given, after a
// title line naming the worker. Times are shown in loc.
func WriteShiftMirror(w io.Writer, workerName string, rows []ports.ShiftRow, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	if err := f.SetCellValue(sheetName, "A1", "Espelho de ponto: "+workerName); err != nil {
		return fmt.Errorf("xlsx title: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A2", "G2", bold); err != nil {
		return fmt.Errorf("xlsx header style: %w", err)
	}

	for r, row := range rows {
		values := []string{
			row.Date,
			row.SiteName,
			row.SectorName,
			clock(row.Entry, loc),
			clock(row.Exit, loc),
			row.DisplayStatus,
			shiftCode(row),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+3)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("xlsx row %d: %w", r, err)
			}
		}
	}
	_ = f.SetColWidth(sheetName, "B", "C", 28)
	_ = f.SetColWidth(sheetName, "F", "F", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func clock(e *domain.ClockEvent, loc *time.Location) string {
	if e == nil {
		return "--:--"
	}
	return e.Timestamp.In(loc).Format("15:04")
}

func shiftCode(row ports.ShiftRow) string {
	if row.Entry != nil {
		return row.Entry.ShiftCode
	}
	return row.Exit.ShiftCode
}

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the monthly rollup as a single-sheet XLSX workbook
func WriteXLSX(w io.Writer, m *Monthly) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Resumen"
	f.SetSheetName("Sheet1", sheet)

	title := fmt.Sprintf("Resumen Mensual: %s", m.Month)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}

	header := []any{"Repartidor", "Email", "Turnos", "Horas", "Tickets", "Total cobrado (€)", "Caja neto (€)"}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 4
	for _, d := range m.Drivers {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		values := []any{d.DriverID, d.DriverEmail, d.Shifts, d.Hours, d.Tickets, d.Earned, d.CajaNeto}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write driver row: %w", err)
		}
		row++
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to compute totals cell: %w", err)
	}
	totals := []any{"TOTAL", "", m.TotalShifts, "", "", m.TotalEarned, m.TotalCajaNeto}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return fmt.Errorf("failed to write totals row: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the monthly rollup as a CSV document: one row per driver
// plus a totals row, matching the columns of the legacy admin export.
func WriteCSV(w io.Writer, m *Monthly) error {
	cw := csv.NewWriter(w)

	header := []string{"Repartidor", "Email", "Turnos", "Horas", "Tickets", "Total cobrado (€)", "Caja neto (€)"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, d := range m.Drivers {
		row := []string{
			d.DriverID,
			d.DriverEmail,
			fmt.Sprintf("%d", d.Shifts),
			fmt.Sprintf("%.1f", d.Hours),
			fmt.Sprintf("%d", d.Tickets),
			fmt.Sprintf("%.2f", d.Earned),
			fmt.Sprintf("%.2f", d.CajaNeto),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	totals := []string{
		"TOTAL",
		"",
		fmt.Sprintf("%d", m.TotalShifts),
		"",
		"",
		fmt.Sprintf("%.2f", m.TotalEarned),
		fmt.Sprintf("%.2f", m.TotalCajaNeto),
	}
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("failed to write csv totals: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

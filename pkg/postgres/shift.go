package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/db"
)

const shiftColumns = `
	id, driver_id, driver_email, date, entry_time, exit_time, hours_worked,
	home_delivery_orders, online_orders, molares_orders, molares_order_numbers,
	total_tickets, total_amount, total_earned,
	total_sales_pedidos, total_datafono, total_caja_neto,
	incidents, status, reviewed_by, reviewed_at, review_notes, created_at`

// InsertShift inserts a new shift record
func (d *DB) InsertShift(ctx context.Context, shift *model.Shift) error {
	var incidents *string
	if shift.Incidents != "" {
		incidents = &shift.Incidents
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO driver_shifts (
			id, driver_id, driver_email, date, entry_time, exit_time, hours_worked,
			home_delivery_orders, online_orders, molares_orders, molares_order_numbers,
			total_tickets, total_amount, total_earned,
			total_sales_pedidos, total_datafono, total_caja_neto,
			incidents, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		shift.ID, shift.DriverID, shift.DriverEmail, shift.Date,
		shift.EntryTime, shift.ExitTime, shift.HoursWorked,
		shift.HomeDeliveryOrders, shift.OnlineOrders,
		shift.MolaresExtraTrip, shift.MolaresOrderNumbers,
		shift.TotalTickets, shift.TotalOrderAmount, shift.TotalEarned,
		shift.TotalSalesDeclared, shift.TotalCardTerminal, shift.TotalCajaNeto,
		incidents, string(shift.Status), shift.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// GetShift retrieves one shift by id, or nil when it does not exist
func (d *DB) GetShift(ctx context.Context, id string) (*model.Shift, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+shiftColumns+`
		FROM driver_shifts
		WHERE id = $1
	`, id)

	shift, err := scanShift(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return shift, nil
}

// ListShifts retrieves shifts matching the filter, newest business date first
func (d *DB) ListShifts(ctx context.Context, filter db.ShiftFilter) ([]model.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM driver_shifts WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DriverID != "" {
		args = append(args, filter.DriverID)
		query += fmt.Sprintf(" AND driver_id = $%d", len(args))
	}
	if filter.FromDate != "" {
		args = append(args, filter.FromDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.ToDate != "" {
		args = append(args, filter.ToDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, *shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// HasShiftForDate reports whether the driver already logged a shift for
// the given business date
func (d *DB) HasShiftForDate(ctx context.Context, driverID, date string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM driver_shifts WHERE driver_id = $1 AND date = $2
		)
	`, driverID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check shift for date: %w", err)
	}
	return exists, nil
}

// ReviewShift conditionally moves a shift from pending to reviewed.
// The status guard in the WHERE clause is what arbitrates two cashiers
// racing on the same shift: exactly one update matches.
func (d *DB) ReviewShift(ctx context.Context, id, reviewedBy, reviewNotes string, reviewedAt time.Time) (bool, error) {
	var notes *string
	if reviewNotes != "" {
		notes = &reviewNotes
	}

	tag, err := d.pool.Exec(ctx, `
		UPDATE driver_shifts
		SET status = 'reviewed', reviewed_by = $2, reviewed_at = $3, review_notes = $4
		WHERE id = $1 AND status = 'pending'
	`, id, reviewedBy, reviewedAt.UTC(), notes)
	if err != nil {
		return false, fmt.Errorf("failed to update shift review: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SweepPending archives every pending shift dated before the cutoff as
// unreviewed, keeping the shift data intact
func (d *DB) SweepPending(ctx context.Context, beforeDate, reviewedBy string, reviewedAt time.Time) ([]db.SweptShift, error) {
	rows, err := d.pool.Query(ctx, `
		UPDATE driver_shifts
		SET status = 'unreviewed', reviewed_by = $2, reviewed_at = $3, review_notes = $2
		WHERE status = 'pending' AND date < $1
		RETURNING id, driver_id
	`, beforeDate, reviewedBy, reviewedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to sweep pending shifts: %w", err)
	}
	defer rows.Close()

	var swept []db.SweptShift
	for rows.Next() {
		var s db.SweptShift
		if err := rows.Scan(&s.ID, &s.DriverID); err != nil {
			return nil, fmt.Errorf("failed to scan swept shift: %w", err)
		}
		swept = append(swept, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating swept shifts: %w", err)
	}

	return swept, nil
}

// LatestTerminalShift returns the driver's most recent reviewed or
// unreviewed shift, or nil when none exists
func (d *DB) LatestTerminalShift(ctx context.Context, driverID string) (*model.Shift, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+shiftColumns+`
		FROM driver_shifts
		WHERE driver_id = $1 AND status IN ('reviewed', 'unreviewed')
		ORDER BY date DESC, created_at DESC
		LIMIT 1
	`, driverID)

	shift, err := scanShift(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest terminal shift: %w", err)
	}
	return shift, nil
}

func scanShift(row pgx.Row) (*model.Shift, error) {
	var shift model.Shift
	var date time.Time
	var status string
	var incidents, reviewedBy, reviewNotes *string
	var reviewedAt *time.Time

	err := row.Scan(
		&shift.ID, &shift.DriverID, &shift.DriverEmail, &date,
		&shift.EntryTime, &shift.ExitTime, &shift.HoursWorked,
		&shift.HomeDeliveryOrders, &shift.OnlineOrders,
		&shift.MolaresExtraTrip, &shift.MolaresOrderNumbers,
		&shift.TotalTickets, &shift.TotalOrderAmount, &shift.TotalEarned,
		&shift.TotalSalesDeclared, &shift.TotalCardTerminal, &shift.TotalCajaNeto,
		&incidents, &status, &reviewedBy, &reviewedAt, &reviewNotes, &shift.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	shift.Date = date.Format("2006-01-02")
	shift.Status = model.Status(status)
	if incidents != nil {
		shift.Incidents = *incidents
	}
	if reviewedBy != nil {
		shift.ReviewedBy = *reviewedBy
	}
	if reviewNotes != nil {
		shift.ReviewNotes = *reviewNotes
	}
	if reviewedAt != nil {
		at := reviewedAt.UTC()
		shift.ReviewedAt = &at
	}
	shift.CreatedAt = shift.CreatedAt.UTC()

	return &shift, nil
}

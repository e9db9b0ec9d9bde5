package db

import (
	"context"
	"time"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
)

// ShiftFilter narrows ListShifts queries. Zero values mean no filtering
// on that dimension. FromDate/ToDate are inclusive business-date bounds
// in 2006-01-02 format.
type ShiftFilter struct {
	Status   model.Status
	DriverID string
	FromDate string
	ToDate   string
}

// SweptShift identifies a shift archived by the cutoff sweep
type SweptShift struct {
	ID       string
	DriverID string
}

// ShiftStore defines the persistence operations for shift records
type ShiftStore interface {
	InsertShift(ctx context.Context, shift *model.Shift) error
	GetShift(ctx context.Context, id string) (*model.Shift, error)
	ListShifts(ctx context.Context, filter ShiftFilter) ([]model.Shift, error)

	// HasShiftForDate reports whether the driver already logged a shift
	// for the given business date.
	HasShiftForDate(ctx context.Context, driverID, date string) (bool, error)

	// ReviewShift moves a shift from pending to reviewed, conditional on
	// it still being pending. Returns false when no row was updated.
	ReviewShift(ctx context.Context, id, reviewedBy, reviewNotes string, reviewedAt time.Time) (bool, error)

	// SweepPending moves every shift still pending with a business date
	// strictly before the cutoff to unreviewed, attaching the synthetic
	// reviewer. Returns the swept shifts.
	SweepPending(ctx context.Context, beforeDate, reviewedBy string, reviewedAt time.Time) ([]SweptShift, error)

	// LatestTerminalShift returns the driver's most recent reviewed or
	// unreviewed shift, or nil when none exists.
	LatestTerminalShift(ctx context.Context, driverID string) (*model.Shift, error)
}

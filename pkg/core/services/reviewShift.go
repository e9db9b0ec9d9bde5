package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/db"
	"github.com/estambul-delivery/shiftledger/pkg/notify"
)

// ReviewShift moves a pending shift to reviewed, attaching the cashier's
// identity and timestamp. The transition is conditional on the shift still
// being pending: when another cashier got there first (or the shift was
// already swept) the call returns false with no error and no state change.
func ReviewShift(
	ctx context.Context,
	store db.ShiftStore,
	notifier notify.StatusNotifier,
	logger *zap.Logger,
	shiftID, reviewedBy, reviewNotes string,
) (bool, error) {
	if reviewedBy == "" {
		return false, fmt.Errorf("reviewer identity is required")
	}

	reviewedAt := time.Now().UTC()
	updated, err := store.ReviewShift(ctx, shiftID, reviewedBy, reviewNotes, reviewedAt)
	if err != nil {
		return false, fmt.Errorf("failed to review shift: %w", err)
	}

	if !updated {
		logger.Info("Shift not pending, review skipped", zap.String("shift_id", shiftID))
		return false, nil
	}

	shift, err := store.GetShift(ctx, shiftID)
	if err != nil {
		logger.Warn("Failed to reload reviewed shift", zap.Error(err))
	}
	driverID := ""
	if shift != nil {
		driverID = shift.DriverID
	}
	notifyStatusChanged(ctx, notifier, logger, shiftID, driverID, model.StatusReviewed)

	logger.Info("Shift reviewed",
		zap.String("shift_id", shiftID),
		zap.String("reviewed_by", reviewedBy))

	return true, nil
}

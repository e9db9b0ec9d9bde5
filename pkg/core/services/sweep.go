package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/db"
	"github.com/estambul-delivery/shiftledger/pkg/notify"
)

// LastCutoff returns the most recent occurrence of the cutoff rule at or
// before now. The zero time means the rule has not fired yet.
func LastCutoff(cutoffRule string, now time.Time) (time.Time, error) {
	set, err := rrule.StrToRRuleSet(cutoffRule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff rule: %w", err)
	}
	return set.Before(now, true), nil
}

// SweepPending archives every shift still pending past the weekly cutoff as
// unreviewed, preserving the original shift data and attaching the synthetic
// reviewer. Both the review and the sweep race through the store's
// conditional update, so running the sweep concurrently with a cashier is
// safe: each shift transitions exactly once.
func SweepPending(
	ctx context.Context,
	store db.ShiftStore,
	notifier notify.StatusNotifier,
	logger *zap.Logger,
	cutoffRule string,
	now time.Time,
) (int, error) {
	cutoff, err := LastCutoff(cutoffRule, now)
	if err != nil {
		return 0, err
	}
	if cutoff.IsZero() {
		logger.Info("Cutoff has not occurred yet, nothing to sweep")
		return 0, nil
	}

	logger.Info("Sweeping pending shifts", zap.Time("cutoff", cutoff))

	swept, err := store.SweepPending(ctx, cutoff.Format("2006-01-02"), model.SyntheticReviewer, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep pending shifts: %w", err)
	}

	for _, s := range swept {
		notifyStatusChanged(ctx, notifier, logger, s.ID, s.DriverID, model.StatusUnreviewed)
	}

	logger.Info("Sweep finished", zap.Int("swept", len(swept)))
	return len(swept), nil
}

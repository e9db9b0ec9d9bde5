package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
)

const mondayCutoffRule = "DTSTART:20240101T040000Z\nRRULE:FREQ=WEEKLY;BYDAY=MO"

func TestLastCutoff(t *testing.T) {
	// Wednesday 2026-07-15; the previous Monday is 2026-07-13
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	cutoff, err := LastCutoff(mondayCutoffRule, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 13, 4, 0, 0, 0, time.UTC), cutoff)
}

func TestLastCutoff_BeforeFirstOccurrence(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cutoff, err := LastCutoff(mondayCutoffRule, now)
	require.NoError(t, err)
	assert.True(t, cutoff.IsZero())
}

func TestLastCutoff_RuleWithoutDTSTART(t *testing.T) {
	// Without a DTSTART line the rule is anchored to the moment it is
	// parsed, so no occurrence exists at or before any earlier instant.
	// Configs must carry an explicit DTSTART; this pins the failure mode.
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cutoff, err := LastCutoff("RRULE:FREQ=WEEKLY;BYDAY=MO", now)
	require.NoError(t, err)
	assert.True(t, cutoff.IsZero())
}

func TestLastCutoff_InvalidRule(t *testing.T) {
	_, err := LastCutoff("RRULE:FREQ=NEVERLY", time.Now())
	assert.Error(t, err)
}

func TestSweepPending(t *testing.T) {
	store := newMockStore()
	// stale pending shift from before the cutoff
	store.add(model.Shift{ID: "old", DriverID: "ana", Date: "2026-07-10", Status: model.StatusPending})
	// pending shift after the cutoff, stays pending
	store.add(model.Shift{ID: "fresh", DriverID: "luis", Date: "2026-07-14", Status: model.StatusPending})
	// already terminal, untouched
	store.add(model.Shift{ID: "done", DriverID: "ana", Date: "2026-07-05", Status: model.StatusReviewed, ReviewedBy: "Cajero 1"})

	notifier := &mockNotifier{}
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

	swept, err := SweepPending(context.Background(), store, notifier, zap.NewNop(), mondayCutoffRule, now)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	ctx := context.Background()
	old, _ := store.GetShift(ctx, "old")
	assert.Equal(t, model.StatusUnreviewed, old.Status)
	assert.Equal(t, model.SyntheticReviewer, old.ReviewedBy)
	require.NotNil(t, old.ReviewedAt)

	fresh, _ := store.GetShift(ctx, "fresh")
	assert.Equal(t, model.StatusPending, fresh.Status)

	done, _ := store.GetShift(ctx, "done")
	assert.Equal(t, model.StatusReviewed, done.Status)
	assert.Equal(t, "Cajero 1", done.ReviewedBy)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "old", notifier.events[0].ShiftID)
	assert.Equal(t, model.StatusUnreviewed, notifier.events[0].Status)
}

// A second sweep finds nothing pending before the cutoff
func TestSweepPending_Idempotent(t *testing.T) {
	store := newMockStore()
	store.add(model.Shift{ID: "old", DriverID: "ana", Date: "2026-07-10", Status: model.StatusPending})
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	logger := zap.NewNop()
	ctx := context.Background()

	first, err := SweepPending(ctx, store, nil, logger, mondayCutoffRule, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := SweepPending(ctx, store, nil, logger, mondayCutoffRule, now)
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestSweepPending_NoOccurrenceYet(t *testing.T) {
	store := newMockStore()
	store.add(model.Shift{ID: "s1", Date: "2019-12-30", Status: model.StatusPending})

	swept, err := SweepPending(context.Background(), store, nil, zap.NewNop(), mondayCutoffRule, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, swept)
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/cache"
	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/db"
)

// SaveDraft mirrors the in-progress shift input to the local cache so the
// driver can recover it after a crash or a failed save
func SaveDraft(mirror cache.Store, driverID string, input ShiftInput) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := mirror.Set(cache.DraftKey(driverID), string(data)); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// LoadDraft reads the driver's mirrored draft, if any
func LoadDraft(mirror cache.Store, driverID string) (*ShiftInput, bool, error) {
	value, ok, err := mirror.Get(cache.DraftKey(driverID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read draft: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var input ShiftInput
	if err := json.Unmarshal([]byte(value), &input); err != nil {
		return nil, false, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &input, true, nil
}

// PreviousShift returns the driver's latest terminal shift, the record the
// driver dashboard shows after a review or sweep
func PreviousShift(ctx context.Context, store db.ShiftStore, logger *zap.Logger, driverID string) (*model.Shift, error) {
	shift, err := store.LatestTerminalShift(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch previous shift: %w", err)
	}
	return shift, nil
}

// CurrentShift resolves the driver's in-flight shift, reconciling the
// authoritative store record against the local mirror. The fetched record
// always wins; the mirror only fills in when nothing was persisted yet.
func CurrentShift(ctx context.Context, store db.ShiftStore, mirror cache.Store, logger *zap.Logger, driverID string) (*model.Shift, error) {
	var authoritative *model.Shift

	if id, ok, err := mirror.Get(cache.LastKnownIDKey(driverID)); err != nil {
		logger.Warn("Failed to read last known shift id", zap.Error(err))
	} else if ok {
		authoritative, err = store.GetShift(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch shift %s: %w", id, err)
		}
	}

	var draftShift *model.Shift
	if draft, ok, err := LoadDraft(mirror, driverID); err != nil {
		logger.Warn("Failed to load draft", zap.Error(err))
	} else if ok {
		draftShift = BuildShift(*draft, time.Now())
		draftShift.ID = "" // drafts have no persisted id
	}

	return cache.Reconcile(authoritative, draftShift), nil
}

// Package cache is the local draft mirror: a string key-value store used
// as an offline draft buffer before a shift reaches the database. It is
// never authoritative; see Reconcile.
package cache

import "fmt"

// Store is a string key-value store scoped per driver and purpose
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Key purposes mirror the browser localStorage keys of the legacy client
const (
	purposeDraft       = "currentShiftDraft"
	purposeSubmitted   = "shiftSubmitted"
	purposeLastKnownID = "currentShiftId"
)

func DraftKey(driverID string) string {
	return fmt.Sprintf("%s_%s", purposeDraft, driverID)
}

func SubmittedFlagKey(driverID string) string {
	return fmt.Sprintf("%s_%s", purposeSubmitted, driverID)
}

func LastKnownIDKey(driverID string) string {
	return fmt.Sprintf("%s_%s", purposeLastKnownID, driverID)
}

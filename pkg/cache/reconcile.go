package cache

import "github.com/estambul-delivery/shiftledger/pkg/core/model"

// Reconcile decides between a freshly fetched authoritative record and a
// locally mirrored draft of the same shift. The authoritative record always
// wins when both exist: the mirror is a recovery buffer, not a source of
// truth, and its status may lag behind a review or sweep that already
// happened. Only when nothing was fetched does the draft survive.
func Reconcile(authoritative, draft *model.Shift) *model.Shift {
	if authoritative != nil {
		return authoritative
	}
	return draft
}

package model

import "time"

// Status is the lifecycle state of a shift.
// A shift is created as pending; reviewed and unreviewed are both terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusReviewed   Status = "reviewed"
	StatusUnreviewed Status = "unreviewed"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusReviewed || s == StatusUnreviewed
}

// IsTerminal reports whether no further transition can occur.
func (s Status) IsTerminal() bool {
	return s == StatusReviewed || s == StatusUnreviewed
}

// SyntheticReviewer is recorded on shifts archived by the cutoff sweep.
const SyntheticReviewer = "Sin revisar"

// Shift represents one driver's logged work session
type Shift struct {
	ID          string
	DriverID    string
	DriverEmail string
	Date        string // 2006-01-02, business date (may differ from submission date)
	EntryTime   string // HH:MM, 24-hour
	ExitTime    string // HH:MM, exit < entry means the shift crossed midnight

	HoursWorked float64 // derived, rounded to nearest 0.5

	HomeDeliveryOrders  []string
	OnlineOrders        []string
	MolaresExtraTrip    bool
	MolaresOrderNumbers []string

	TotalTickets     int
	TotalOrderAmount float64
	TotalEarned      float64

	TotalSalesDeclared float64
	TotalCardTerminal  float64
	TotalCajaNeto      float64 // may be negative; stored unclamped

	Incidents string

	Status      Status
	ReviewedBy  string
	ReviewedAt  *time.Time
	ReviewNotes string

	CreatedAt time.Time
}

// StatusChangedEvent is emitted whenever a shift enters a lifecycle state
type StatusChangedEvent struct {
	ShiftID    string    `json:"shift_id"`
	DriverID   string    `json:"driver_id"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

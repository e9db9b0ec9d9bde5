package report

import (
	"sort"
	"strings"
	"time"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
)

// DriverTotals is one driver's aggregated month
type DriverTotals struct {
	DriverID    string
	DriverEmail string
	Shifts      int
	Hours       float64
	Tickets     int
	Earned      float64
	CajaNeto    float64
}

// Monthly is the admin-facing rollup for one YYYY-MM month.
// Only terminal shifts (reviewed or unreviewed) are counted; pending shifts
// belong to the cashier's queue, not to history.
type Monthly struct {
	Month   string
	Drivers []DriverTotals

	TotalShifts   int
	TotalEarned   float64
	TotalCajaNeto float64

	Reviewed   int
	Unreviewed int
}

// BuildMonthly aggregates terminal shifts of the given month per driver.
// Shifts outside the month or still pending are skipped.
func BuildMonthly(month string, shifts []model.Shift) *Monthly {
	rollup := &Monthly{Month: month}

	byDriver := make(map[string]*DriverTotals)
	for _, shift := range shifts {
		if !shift.Status.IsTerminal() || !strings.HasPrefix(shift.Date, month) {
			continue
		}

		totals, ok := byDriver[shift.DriverID]
		if !ok {
			totals = &DriverTotals{DriverID: shift.DriverID, DriverEmail: shift.DriverEmail}
			byDriver[shift.DriverID] = totals
		}

		totals.Shifts++
		totals.Hours += shift.HoursWorked
		totals.Tickets += shift.TotalTickets
		totals.Earned += shift.TotalEarned
		totals.CajaNeto += shift.TotalCajaNeto

		rollup.TotalShifts++
		rollup.TotalEarned += shift.TotalEarned
		rollup.TotalCajaNeto += shift.TotalCajaNeto
		if shift.Status == model.StatusReviewed {
			rollup.Reviewed++
		} else {
			rollup.Unreviewed++
		}
	}

	rollup.Drivers = make([]DriverTotals, 0, len(byDriver))
	for _, totals := range byDriver {
		rollup.Drivers = append(rollup.Drivers, *totals)
	}
	sort.Slice(rollup.Drivers, func(i, j int) bool {
		return rollup.Drivers[i].DriverID < rollup.Drivers[j].DriverID
	})

	return rollup
}

// ReviewMetrics summarises cashier review activity
type ReviewMetrics struct {
	TotalReviews     int
	ReviewsToday     int
	ReviewsThisWeek  int
	ReviewsThisMonth int
	PendingCount     int
	ReviewerStats    map[string]int
}

// BuildReviewMetrics computes review counters relative to now.
// The week starts on the most recent Sunday, matching the legacy dashboard.
func BuildReviewMetrics(shifts []model.Shift, now time.Time) ReviewMetrics {
	metrics := ReviewMetrics{ReviewerStats: make(map[string]int)}

	today := now.Format("2006-01-02")
	weekStart := now.AddDate(0, 0, -int(now.Weekday())).Format("2006-01-02")
	month := now.Format("2006-01")

	for _, shift := range shifts {
		switch shift.Status {
		case model.StatusPending:
			metrics.PendingCount++
		case model.StatusReviewed:
			metrics.TotalReviews++
			if shift.ReviewedBy != "" {
				metrics.ReviewerStats[shift.ReviewedBy]++
			}
			if shift.ReviewedAt != nil {
				reviewDate := shift.ReviewedAt.Format("2006-01-02")
				if reviewDate == today {
					metrics.ReviewsToday++
				}
				if reviewDate >= weekStart {
					metrics.ReviewsThisWeek++
				}
				if strings.HasPrefix(reviewDate, month) {
					metrics.ReviewsThisMonth++
				}
			}
		}
	}

	return metrics
}

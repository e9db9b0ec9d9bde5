package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
)

func monthShifts() []model.Shift {
	return []model.Shift{
		{
			ID: "s1", DriverID: "ana", DriverEmail: "ana@example.com", Date: "2026-07-03",
			HoursWorked: 5, TotalTickets: 12, TotalEarned: 36.5, TotalCajaNeto: 40,
			Status: model.StatusReviewed,
		},
		{
			ID: "s2", DriverID: "ana", DriverEmail: "ana@example.com", Date: "2026-07-10",
			HoursWorked: 4, TotalTickets: 8, TotalEarned: 28, TotalCajaNeto: -10,
			Status: model.StatusUnreviewed,
		},
		{
			ID: "s3", DriverID: "luis", DriverEmail: "luis@example.com", Date: "2026-07-05",
			HoursWorked: 6, TotalTickets: 25, TotalEarned: 50, TotalCajaNeto: 15,
			Status: model.StatusReviewed,
		},
		// wrong month
		{
			ID: "s4", DriverID: "ana", Date: "2026-06-28",
			TotalEarned: 99, Status: model.StatusReviewed,
		},
		// still pending, not part of history
		{
			ID: "s5", DriverID: "luis", Date: "2026-07-20",
			TotalEarned: 99, Status: model.StatusPending,
		},
	}
}

func TestBuildMonthly(t *testing.T) {
	m := BuildMonthly("2026-07", monthShifts())

	assert.Equal(t, "2026-07", m.Month)
	assert.Equal(t, 3, m.TotalShifts)
	assert.Equal(t, 2, m.Reviewed)
	assert.Equal(t, 1, m.Unreviewed)
	assert.InDelta(t, 114.5, m.TotalEarned, 1e-9)
	assert.InDelta(t, 45, m.TotalCajaNeto, 1e-9)

	require.Len(t, m.Drivers, 2)
	ana := m.Drivers[0]
	assert.Equal(t, "ana", ana.DriverID)
	assert.Equal(t, 2, ana.Shifts)
	assert.InDelta(t, 9, ana.Hours, 1e-9)
	assert.Equal(t, 20, ana.Tickets)
	assert.InDelta(t, 64.5, ana.Earned, 1e-9)
	assert.InDelta(t, 30, ana.CajaNeto, 1e-9)

	luis := m.Drivers[1]
	assert.Equal(t, "luis", luis.DriverID)
	assert.Equal(t, 1, luis.Shifts)
}

func TestBuildMonthly_EmptyMonth(t *testing.T) {
	m := BuildMonthly("2025-01", monthShifts())
	assert.Empty(t, m.Drivers)
	assert.Zero(t, m.TotalShifts)
}

func TestWriteCSV(t *testing.T) {
	m := BuildMonthly("2026-07", monthShifts())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, m))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + 2 drivers + totals
	assert.Contains(t, lines[0], "Repartidor")
	assert.Contains(t, lines[1], "ana")
	assert.Contains(t, lines[3], "TOTAL")
	assert.Contains(t, lines[3], "114.50")
}

func TestWriteXLSX(t *testing.T) {
	m := BuildMonthly("2026-07", monthShifts())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, m))
	assert.NotZero(t, buf.Len())
}

func TestBuildReviewMetrics(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC) // Wednesday
	today := now
	earlierThisMonth := time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC) // before the week's Sunday
	lastMonth := now.AddDate(0, -1, 0)

	shifts := []model.Shift{
		{Status: model.StatusReviewed, ReviewedBy: "Cajero 1", ReviewedAt: &today},
		{Status: model.StatusReviewed, ReviewedBy: "Cajero 1", ReviewedAt: &lastMonth},
		{Status: model.StatusReviewed, ReviewedBy: "Cajero 2", ReviewedAt: &today},
		{Status: model.StatusReviewed, ReviewedBy: "Cajero 2", ReviewedAt: &earlierThisMonth},
		{Status: model.StatusPending},
		{Status: model.StatusUnreviewed},
	}

	metrics := BuildReviewMetrics(shifts, now)
	assert.Equal(t, 4, metrics.TotalReviews)
	assert.Equal(t, 2, metrics.ReviewsToday)
	assert.Equal(t, 2, metrics.ReviewsThisWeek)
	assert.Equal(t, 3, metrics.ReviewsThisMonth)
	assert.Equal(t, 1, metrics.PendingCount)
	assert.Equal(t, 2, metrics.ReviewerStats["Cajero 1"])
	assert.Equal(t, 2, metrics.ReviewerStats["Cajero 2"])
}

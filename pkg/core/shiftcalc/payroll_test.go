package shiftcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketCountBonus(t *testing.T) {
	tests := []struct {
		tickets       int
		wantAmount    float64
		wantThreshold int
	}{
		{0, 0, 0},
		{10, 0, 0},
		{11, 0.5, 11},
		{20, 0.5, 11},
		{21, 1.5, 21},
		{30, 1.5, 21},
		{31, 2.5, 31},
		{50, 2.5, 31},
	}

	for _, tt := range tests {
		amount, threshold := TicketCountBonus(tt.tickets)
		assert.Equal(t, tt.wantAmount, amount, "tickets=%d", tt.tickets)
		assert.Equal(t, tt.wantThreshold, threshold, "tickets=%d", tt.tickets)
	}
}

// Reaching a higher band supersedes the lower ones, it does not stack them
func TestTicketCountBonus_HighestBandOnly(t *testing.T) {
	amount, _ := TicketCountBonus(31)
	assert.Equal(t, 2.5, amount)
}

func TestTotalEarned(t *testing.T) {
	tests := []struct {
		name      string
		hours     float64
		tickets   int
		extraTrip bool
		want      float64
	}{
		{"no work", 0, 0, false, 0},
		{"hours only", 4, 0, false, 24},
		{"hours and tickets", 5, 8, false, 34},
		{"extra trip adds one euro", 5, 8, true, 35},
		{"five hours 25 tickets with molares", 5, 25, true, 44.5},
		{"top band", 6, 31, false, 54},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalEarned(tt.hours, tt.tickets, tt.extraTrip))
		})
	}
}

func TestTotalEarned_Idempotent(t *testing.T) {
	first := TotalEarned(5.5, 23, true)
	second := TotalEarned(5.5, 23, true)
	assert.Equal(t, first, second)
}

// Crossing a band boundary raises the payout by exactly the bonus jump
// plus the marginal per-ticket rate
func TestTotalEarned_BandBoundaryJumps(t *testing.T) {
	boundaries := []struct {
		below, above int
		bonusJump    float64
	}{
		{10, 11, 0.5},
		{20, 21, 1.0}, // 0.5 -> 1.5
		{30, 31, 1.0}, // 1.5 -> 2.5
	}

	for _, b := range boundaries {
		lo := TotalEarned(4, b.below, false)
		hi := TotalEarned(4, b.above, false)
		assert.Greater(t, hi, lo, "%d->%d must strictly increase", b.below, b.above)
		assert.InDelta(t, b.bonusJump+PerTicketRate, hi-lo, 1e-9, "%d->%d", b.below, b.above)
	}
}

func TestIncentiveMessage(t *testing.T) {
	assert.Empty(t, IncentiveMessage(10))
	assert.Equal(t, "¡Bono de 0.50 € por superar los 10 tickets!", IncentiveMessage(15))
	assert.Equal(t, "¡Bono de 1.50 € por superar los 20 tickets!", IncentiveMessage(21))
	assert.Equal(t, "¡Bono de 2.50 € por superar los 30 tickets!", IncentiveMessage(40))
}

package shiftcalc

import "fmt"

// Business rates, in euros
const (
	HourlyRate     = 6.0
	PerTicketRate  = 0.5
	ExtraTripBonus = 1.0
)

// BonusBand is one step of the ticket-count incentive.
// Only the highest band reached applies; bands do not stack.
type BonusBand struct {
	Threshold int
	Amount    float64
}

// bonusBands is ordered by ascending threshold
var bonusBands = []BonusBand{
	{Threshold: 11, Amount: 0.5},
	{Threshold: 21, Amount: 1.5},
	{Threshold: 31, Amount: 2.5},
}

// TicketCountBonus returns the bonus for the given total ticket count and
// the threshold of the band that was reached (0 when below every band).
func TicketCountBonus(totalTickets int) (float64, int) {
	amount := 0.0
	threshold := 0
	for _, band := range bonusBands {
		if totalTickets >= band.Threshold {
			amount = band.Amount
			threshold = band.Threshold
		}
	}
	return amount, threshold
}

// IncentiveMessage returns the human-readable incentive line for the band
// reached, or the empty string below the first band.
func IncentiveMessage(totalTickets int) string {
	amount, threshold := TicketCountBonus(totalTickets)
	if threshold == 0 {
		return ""
	}
	return fmt.Sprintf("¡Bono de %.2f € por superar los %d tickets!", amount, threshold-1)
}

// OrderAmount is the per-ticket component of the payout
func OrderAmount(totalTickets int) float64 {
	return float64(totalTickets) * PerTicketRate
}

// TotalEarned computes the driver payout for a shift. Pure function of its
// inputs; callers recompute it whenever any input changes.
func TotalEarned(hoursWorked float64, totalTickets int, extraTrip bool) float64 {
	earned := hoursWorked*HourlyRate + OrderAmount(totalTickets)
	if extraTrip {
		earned += ExtraTripBonus
	}
	bonus, _ := TicketCountBonus(totalTickets)
	return earned + bonus
}

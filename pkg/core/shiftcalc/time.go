package shiftcalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ClockMinutes parses an HH:MM clock time into minutes since midnight
func ClockMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock time %q out of range", clock)
	}

	return hours*60 + minutes, nil
}

// HoursWorked computes elapsed hours between two HH:MM clock times,
// rounded to the nearest half hour. An exit earlier than the entry means
// the shift crossed midnight, so a day is added to the exit.
// Missing or malformed times yield 0; the submission gate rejects those
// upstream, this never signals them itself.
func HoursWorked(entryTime, exitTime string) float64 {
	if entryTime == "" || exitTime == "" {
		return 0
	}

	entryMinutes, err := ClockMinutes(entryTime)
	if err != nil {
		return 0
	}
	exitMinutes, err := ClockMinutes(exitTime)
	if err != nil {
		return 0
	}

	if exitMinutes < entryMinutes {
		exitMinutes += minutesPerDay
	}

	hours := float64(exitMinutes-entryMinutes) / 60
	return math.Round(hours*2) / 2
}

package shiftcalc

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	MinHomeDeliveryOrder = 1
	MaxHomeDeliveryOrder = 128
)

var (
	digitsPattern      = regexp.MustCompile(`^\d+$`)
	onlineOrderPattern = regexp.MustCompile(`^\d{5}$`)
)

// SplitOrderTokens splits a raw comma-separated order list into trimmed,
// non-empty tokens. Order is preserved.
func SplitOrderTokens(raw string) []string {
	tokens := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(part)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// OrderReport carries the parsed order tokens plus per-field invalid flags
// and the human-readable messages for the submission gate. Validation never
// fails with an error: every problem is a flag and a message.
type OrderReport struct {
	HomeDelivery []string
	Online       []string
	Molares      []string

	HomeInvalid    bool
	OnlineInvalid  bool
	MolaresMissing bool
	MolaresUnknown bool

	Messages []string
}

// Valid reports whether every order rule passed
func (r *OrderReport) Valid() bool {
	return !r.HomeInvalid && !r.OnlineInvalid && !r.MolaresMissing && !r.MolaresUnknown
}

// ValidateOrders parses and validates the three raw order lists.
//
// Home-delivery tokens must be integers in [1,128], online tokens exactly
// five digits, neither list may contain duplicates. When the Molares
// extra-trip flag is set, its token list is required and every token must
// already appear in one of the other two lists: you cannot declare an
// extra trip for an order that was never logged.
func ValidateOrders(homeRaw, onlineRaw string, molaresFlag bool, molaresRaw string) *OrderReport {
	report := &OrderReport{
		HomeDelivery: SplitOrderTokens(homeRaw),
		Online:       SplitOrderTokens(onlineRaw),
		Molares:      SplitOrderTokens(molaresRaw),
	}

	badFormat := false
	outOfRange := false
	for _, token := range report.HomeDelivery {
		if !digitsPattern.MatchString(token) {
			badFormat = true
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil || n < MinHomeDeliveryOrder || n > MaxHomeDeliveryOrder {
			outOfRange = true
		}
	}
	if badFormat {
		report.HomeInvalid = true
		report.Messages = append(report.Messages, "Los pedidos a domicilio solo pueden contener números enteros positivos")
	}
	if outOfRange {
		report.HomeInvalid = true
		report.Messages = append(report.Messages, "Los pedidos a domicilio deben estar entre 1 y 128")
	}
	if hasDuplicateValues(report.HomeDelivery) {
		report.HomeInvalid = true
		report.Messages = append(report.Messages, "No puede haber pedidos a domicilio duplicados")
	}

	badOnline := false
	for _, token := range report.Online {
		if !onlineOrderPattern.MatchString(token) {
			badOnline = true
		}
	}
	if badOnline {
		report.OnlineInvalid = true
		report.Messages = append(report.Messages, "Los pedidos online deben ser números de 5 dígitos")
	}
	if hasDuplicates(report.Online) {
		report.OnlineInvalid = true
		report.Messages = append(report.Messages, "No puede haber pedidos online duplicados")
	}

	if molaresFlag {
		if len(report.Molares) == 0 {
			report.MolaresMissing = true
			report.Messages = append(report.Messages, "Indique los pedidos llevados")
		} else {
			known := make(map[string]bool, len(report.HomeDelivery)+len(report.Online))
			for _, token := range report.HomeDelivery {
				known[token] = true
			}
			for _, token := range report.Online {
				known[token] = true
			}
			for _, token := range report.Molares {
				if !known[token] {
					report.MolaresUnknown = true
					report.Messages = append(report.Messages, "Los pedidos a Molares deben ser pedidos ya registrados")
					break
				}
			}
		}
	}

	return report
}

func hasDuplicates(tokens []string) bool {
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if seen[token] {
			return true
		}
		seen[token] = true
	}
	return false
}

// hasDuplicateValues compares tokens by their numeric value, so "5" and
// "05" collide. Unparsable tokens are skipped; the format check already
// flags them.
func hasDuplicateValues(tokens []string) bool {
	seen := make(map[int]bool, len(tokens))
	for _, token := range tokens {
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if seen[n] {
			return true
		}
		seen[n] = true
	}
	return false
}

package shiftcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitOrderTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "12", []string{"12"}},
		{"trims whitespace", " 12 , 45 ", []string{"12", "45"}},
		{"drops empty tokens", "12,,45,", []string{"12", "45"}},
		{"preserves order", "7,3,5", []string{"7", "3", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitOrderTokens(tt.raw))
		})
	}
}

func TestValidateOrders_HomeDelivery(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantInvalid bool
		wantMessage string
	}{
		{"valid list", "1,64,128", false, ""},
		{"out of range high", "12,45,999", true, "Los pedidos a domicilio deben estar entre 1 y 128"},
		{"out of range zero", "0,5", true, "Los pedidos a domicilio deben estar entre 1 y 128"},
		{"non numeric", "12,abc", true, "Los pedidos a domicilio solo pueden contener números enteros positivos"},
		{"negative sign is bad format", "-3", true, "Los pedidos a domicilio solo pueden contener números enteros positivos"},
		{"duplicates", "12,45,12", true, "No puede haber pedidos a domicilio duplicados"},
		{"leading zero duplicates by value", "5,05", true, "No puede haber pedidos a domicilio duplicados"},
		{"empty is valid", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateOrders(tt.raw, "", false, "")
			assert.Equal(t, tt.wantInvalid, report.HomeInvalid)
			if tt.wantMessage != "" {
				assert.Contains(t, report.Messages, tt.wantMessage)
			} else {
				assert.Empty(t, report.Messages)
			}
		})
	}
}

func TestValidateOrders_Online(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantInvalid bool
	}{
		{"valid five digit", "12345,56789", false},
		{"four digits invalid", "1234,56789", true},
		{"six digits invalid", "123456", true},
		{"letters invalid", "12a45", true},
		{"duplicates", "12345,12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateOrders("", tt.raw, false, "")
			assert.Equal(t, tt.wantInvalid, report.OnlineInvalid)
		})
	}
}

func TestValidateOrders_Molares(t *testing.T) {
	t.Run("required when flag set", func(t *testing.T) {
		report := ValidateOrders("12,45", "", true, "")
		assert.True(t, report.MolaresMissing)
		assert.Contains(t, report.Messages, "Indique los pedidos llevados")
	})

	t.Run("tokens must belong to a logged order", func(t *testing.T) {
		report := ValidateOrders("12,45", "12345", true, "12,99")
		assert.True(t, report.MolaresUnknown)
		assert.False(t, report.Valid())
	})

	t.Run("union of home and online is allowed", func(t *testing.T) {
		report := ValidateOrders("12,45", "12345", true, "45,12345")
		assert.True(t, report.Valid())
		assert.Empty(t, report.Messages)
	})

	t.Run("flag off means no molares checks", func(t *testing.T) {
		report := ValidateOrders("12", "", false, "99")
		assert.True(t, report.Valid())
	})
}

// All problems are reported together, not fail-fast
func TestValidateOrders_AggregatesMessages(t *testing.T) {
	report := ValidateOrders("999,abc,abc", "123", true, "")
	assert.True(t, report.HomeInvalid)
	assert.True(t, report.OnlineInvalid)
	assert.True(t, report.MolaresMissing)
	assert.GreaterOrEqual(t, len(report.Messages), 4)
}

package shiftcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCajaNeto(t *testing.T) {
	assert.Equal(t, 120.0, CajaNeto(350, 230))
	assert.Equal(t, 0.0, CajaNeto(100, 100))

	// shortfall stays negative in the stored figure
	assert.Equal(t, -30.0, CajaNeto(200, 230))
}

func TestDisplayCajaNeto(t *testing.T) {
	assert.Equal(t, 120.0, DisplayCajaNeto(120))
	assert.Equal(t, 0.0, DisplayCajaNeto(-30))
}

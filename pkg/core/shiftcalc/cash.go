package shiftcalc

// CajaNeto computes the net cash-drawer delta from declared sales and the
// card-terminal total. A negative result is a valid state (cash shortfall)
// and is stored as-is.
func CajaNeto(totalSalesDeclared, totalCardTerminal float64) float64 {
	return totalSalesDeclared - totalCardTerminal
}

// DisplayCajaNeto floors a caja neto at zero for presentation.
// Cosmetic only: the stored figure keeps its sign.
func DisplayCajaNeto(cajaNeto float64) float64 {
	if cajaNeto < 0 {
		return 0
	}
	return cajaNeto
}

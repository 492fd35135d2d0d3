package market

// PricePoint is one recorded daily price of an instrument.
type PricePoint struct {
	Day   int
	Price float64
}

// Clamp raises p to floor when it falls below it.
func Clamp(p, floor float64) float64 {
	if p < floor {
		return floor
	}
	return p
}

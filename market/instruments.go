// market/instruments.go
package market

import "fmt"

const (
	// MinPrice is the floor every instrument price is clamped to.
	MinPrice = 1.0

	// WindowSize is the number of daily closes kept for display.
	WindowSize = 5
)

// Spec describes an instrument at construction time.
type Spec struct {
	Name         string
	InitialPrice float64
}

// Instrument is one tradable synthetic stock. Its price never drops below
// the floor it was created with.
type Instrument struct {
	Name string

	price   float64
	initial float64
	floor   float64
	window  *Window
}

// NewInstrument creates an instrument whose rolling window is padded with the
// initial price.
func NewInstrument(spec Spec, windowSize int, floor float64) (*Instrument, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("instrument name is required")
	}
	if spec.InitialPrice < floor {
		return nil, fmt.Errorf("instrument %s: initial price %.2f below floor %.2f", spec.Name, spec.InitialPrice, floor)
	}
	if windowSize <= 0 {
		windowSize = WindowSize
	}
	return &Instrument{
		Name:    spec.Name,
		price:   spec.InitialPrice,
		initial: spec.InitialPrice,
		floor:   floor,
		window:  NewWindow(windowSize, spec.InitialPrice),
	}, nil
}

// Price returns the current price.
func (i *Instrument) Price() float64 { return i.price }

// InitialPrice returns the price at construction.
func (i *Instrument) InitialPrice() float64 { return i.initial }

// Move applies a percentage change to the price already in effect and clamps
// the result to the floor. It returns the new price.
func (i *Instrument) Move(percent float64) float64 {
	i.price = Clamp(i.price+i.price*percent/100.0, i.floor)
	return i.price
}

// Close pushes the current price into the rolling window, evicting the
// oldest entry.
func (i *Instrument) Close() {
	i.window.Push(i.price)
}

// Window returns the rolling window, oldest first.
func (i *Instrument) Window() []float64 {
	return i.window.Values()
}

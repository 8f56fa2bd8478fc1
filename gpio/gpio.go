// Package gpio defines the digital GPIO capability shared by every board
// adapter.
//
// An adapter implements the three primitives of GPIO.  The convenience
// operations SetHigh, SetLow, IsHigh and IsLow are written once here in
// terms of those primitives and work with any adapter, fake or real.
//
// Adapters are not safe for concurrent use unless their native driver is.
// Callers sharing one adapter between goroutines must serialize access
// themselves.
package gpio

// GPIO is implemented by every board adapter.
type GPIO interface {
	// Setup configures pin for input or output.  Errors reported by the
	// native driver are returned unchanged.
	Setup(pin Pin, dir Direction) error
	// Output sets the level driven on an output pin.  Writing to an input
	// pin is driver-defined.
	Output(pin Pin, v Level) error
	// Input returns the level sensed on pin.  It is always High or Low.
	Input(pin Pin) (Level, error)
}

// SetHigh drives pin High.
func SetHigh(g GPIO, pin Pin) error { return g.Output(pin, High) }

// SetLow drives pin Low.
func SetLow(g GPIO, pin Pin) error { return g.Output(pin, Low) }

// IsHigh reports whether pin reads High.
func IsHigh(g GPIO, pin Pin) (bool, error) {
	v, err := g.Input(pin)
	if err != nil {
		return false, err
	}
	return v == High, nil
}

// IsLow reports whether pin reads Low.
func IsLow(g GPIO, pin Pin) (bool, error) {
	v, err := g.Input(pin)
	if err != nil {
		return false, err
	}
	return v == Low, nil
}

// Package bone adapts a BeagleBone Black GPIO driver to gpio.GPIO.
package bone

import (
	"errors"

	"gpiohal/gpio"
)

// PinMode is the driver's own direction vocabulary.
type PinMode int

const (
	Output PinMode = iota
	Input
)

var ErrUnknownPin = errors.New("bone: unknown pin")

// Driver is the subset of a BeagleBone GPIO driver used by Adapter.  It has
// no warning or numbering-mode concepts: pins are named by header position.
type Driver interface {
	Setup(pin gpio.Pin, m PinMode) error
	Output(pin gpio.Pin, v bool) error
	Input(pin gpio.Pin) (bool, error)
}

// Adapter implements gpio.GPIO on top of a Driver.
type Adapter struct {
	drv Driver
}

var _ gpio.GPIO = (*Adapter)(nil)

// New takes ownership of drv.
func New(drv Driver) *Adapter {
	return &Adapter{drv: drv}
}

func (a *Adapter) Setup(pin gpio.Pin, dir gpio.Direction) error {
	m := Output
	if dir == gpio.In {
		m = Input
	}
	return a.drv.Setup(pin, m)
}

func (a *Adapter) Output(pin gpio.Pin, v gpio.Level) error {
	return a.drv.Output(pin, bool(v))
}

func (a *Adapter) Input(pin gpio.Pin) (gpio.Level, error) {
	v, err := a.drv.Input(pin)
	if err != nil {
		return gpio.Low, err
	}
	return gpio.Level(v), nil
}

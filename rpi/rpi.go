// Package rpi adapts a Raspberry Pi GPIO driver to gpio.GPIO.
//
// The native driver is reached through the narrow Driver interface.  Open
// returns the go-rpio backed implementation; tests and other callers may
// supply their own.
package rpi

import (
	"errors"
	"fmt"

	"gpiohal/gpio"
)

// NumberingMode selects how the driver interprets pin identifiers.
type NumberingMode string

const (
	// BCM numbers pins by Broadcom SoC channel.  It is the default.
	BCM NumberingMode = "BCM"
	// BOARD numbers pins by physical position on the 40-pin header.
	BOARD NumberingMode = "BOARD"
)

// PinMode is the driver's own direction vocabulary.
type PinMode int

const (
	Output PinMode = iota
	Input
)

var (
	ErrUnavailable = errors.New("rpi: gpio unavailable on this platform")
	ErrUnknownPin  = errors.New("rpi: unknown pin")
	ErrModeNotSet  = errors.New("rpi: numbering mode not set")
)

// Driver is the subset of a Raspberry Pi GPIO driver used by Adapter.
type Driver interface {
	SetWarnings(on bool)
	SetMode(m NumberingMode) error
	Setup(pin gpio.Pin, m PinMode) error
	Output(pin gpio.Pin, v bool) error
	Input(pin gpio.Pin) (bool, error)
}

type settings struct {
	mode    NumberingMode
	modeSet bool
}

// Option configures an Adapter.
type Option func(*settings)

// WithMode selects the numbering mode instead of BCM.  Only BCM and BOARD
// are accepted; New rejects anything else.
func WithMode(m NumberingMode) Option {
	return func(s *settings) {
		s.mode = m
		s.modeSet = true
	}
}

// Adapter implements gpio.GPIO on top of a Driver.
type Adapter struct {
	drv  Driver
	mode NumberingMode
}

var _ gpio.GPIO = (*Adapter)(nil)

// New takes ownership of drv, silences its warnings and selects the
// numbering mode.  An explicit mode other than BCM or BOARD fails with
// gpio.ErrInvalidArgument before the driver is touched.
func New(drv Driver, opts ...Option) (*Adapter, error) {
	s := settings{mode: BCM}
	for _, o := range opts {
		o(&s)
	}
	if s.modeSet && s.mode != BCM && s.mode != BOARD {
		return nil, fmt.Errorf("rpi: mode %q must be BOARD or BCM: %w", s.mode, gpio.ErrInvalidArgument)
	}
	drv.SetWarnings(false)
	if err := drv.SetMode(s.mode); err != nil {
		return nil, err
	}
	return &Adapter{drv: drv, mode: s.mode}, nil
}

// Mode returns the numbering mode selected at construction.
func (a *Adapter) Mode() NumberingMode { return a.mode }

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

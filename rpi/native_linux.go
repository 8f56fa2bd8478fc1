//go:build linux

package rpi

import (
	"fmt"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/stianeikeland/go-rpio/v4"

	"gpiohal/gpio"
)

// Native drives the Broadcom GPIO block through go-rpio's memory mapping of
// /dev/gpiomem.  Only one Native should exist per process.
type Native struct {
	log        golog.Logger
	warnings   bool
	mode       NumberingMode
	configured map[int]PinMode
}

var _ Driver = (*Native)(nil)

// Open maps GPIO memory.  It requires a Raspberry Pi and access to
// /dev/gpiomem (or root).
func Open() (*Native, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("rpi: map gpio memory: %w", err)
	}
	return &Native{
		log:        golog.Global().Named("rpi"),
		warnings:   true,
		configured: make(map[int]PinMode),
	}, nil
}

// Close unmaps GPIO memory.  Pin state is left as is.
func (n *Native) Close() error { return rpio.Close() }

func (n *Native) SetWarnings(on bool) { n.warnings = on }

// SetMode fixes the numbering mode.  Changing an already selected mode is
// an error, as with RPi.GPIO.
func (n *Native) SetMode(m NumberingMode) error {
	if n.mode != "" && n.mode != m {
		return fmt.Errorf("rpi: numbering mode already %s", n.mode)
	}
	n.mode = m
	return nil
}

func (n *Native) pin(p gpio.Pin) (rpio.Pin, int, error) {
	if n.mode == "" {
		return 0, 0, ErrModeNotSet
	}
	num, err := strconv.Atoi(string(p))
	if err != nil {
		return 0, 0, fmt.Errorf("%w %q", ErrUnknownPin, p)
	}
	c, ok := channel(n.mode, num)
	if !ok {
		return 0, 0, fmt.Errorf("%w %q in %s mode", ErrUnknownPin, p, n.mode)
	}
	return rpio.Pin(c), c, nil
}

func (n *Native) Setup(p gpio.Pin, m PinMode) error {
	rp, c, err := n.pin(p)
	if err != nil {
		return err
	}
	if prev, ok := n.configured[c]; ok && n.warnings {
		n.log.Warnw("channel already in use", "pin", p, "bcm", c, "mode", prev)
	}
	switch m {
	case Input:
		rp.Input()
	case Output:
		rp.Output()
	default:
		return fmt.Errorf("rpi: unknown pin mode %d", m)
	}
	n.configured[c] = m
	return nil
}

func (n *Native) Output(p gpio.Pin, v bool) error {
	rp, _, err := n.pin(p)
	if err != nil {
		return err
	}
	if v {
		rp.High()
	} else {
		rp.Low()
	}
	return nil
}

func (n *Native) Input(p gpio.Pin) (bool, error) {
	rp, _, err := n.pin(p)
	if err != nil {
		return false, err
	}
	return rp.Read() == rpio.High, nil
}

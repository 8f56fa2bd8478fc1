package bone

import (
	"fmt"

	"github.com/edaniels/golog"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"gpiohal/gpio"
)

// Native drives BeagleBone pins through periph.io.  Pins are looked up by
// the names periph registers: header positions such as "P8_10" or kernel
// names such as "GPIO60".
type Native struct {
	log    golog.Logger
	lookup func(name string) pgpio.PinIO
}

var _ Driver = (*Native)(nil)

// Open initialises the periph host drivers.  host.Init may be called more
// than once; later calls are no-ops.
func Open() (*Native, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("bone: init periph host: %w", err)
	}
	log := golog.Global().Named("bone")
	for _, f := range state.Failed {
		log.Debugw("periph driver failed", "driver", f.D.String(), "error", f.Err)
	}
	return &Native{log: log, lookup: gpioreg.ByName}, nil
}

func (n *Native) pin(p gpio.Pin) (pgpio.PinIO, error) {
	io := n.lookup(string(p))
	if io == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownPin, p)
	}
	return io, nil
}

func (n *Native) Setup(p gpio.Pin, m PinMode) error {
	io, err := n.pin(p)
	if err != nil {
		return err
	}
	switch m {
	case Input:
		err = io.In(pgpio.PullNoChange, pgpio.NoEdge)
	case Output:
		// Keep the currently sensed level so switching direction does not glitch.
		err = io.Out(io.Read())
	default:
		return fmt.Errorf("bone: unknown pin mode %d", m)
	}
	if err != nil {
		return fmt.Errorf("bone: setup %s: %w", p, err)
	}
	return nil
}

func (n *Native) Output(p gpio.Pin, v bool) error {
	io, err := n.pin(p)
	if err != nil {
		return err
	}
	if err := io.Out(pgpio.Level(v)); err != nil {
		return fmt.Errorf("bone: output %s: %w", p, err)
	}
	return nil
}

func (n *Native) Input(p gpio.Pin) (bool, error) {
	io, err := n.pin(p)
	if err != nil {
		return false, err
	}
	return io.Read() == pgpio.High, nil
}

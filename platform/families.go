package platform

import (
	"fmt"

	"gpiohal/bone"
	"gpiohal/gpio"
	"gpiohal/rpi"
)

// Raspberry Pi under Raspbian, e.g. "Linux-3.10.25+-armv6l-with-debian-7.4".
var RaspberryPi = Family{
	Name:  "raspberrypi",
	Token: "armv6l-with-debian",
	New:   newRaspberryPi,
}

// BeagleBone Black under Debian, e.g.
// "Linux-3.8.13-bone47-armv7l-with-debian-7.4".
var BeagleBone = Family{
	Name:  "beaglebone",
	Token: "armv7l-with-debian",
	New:   newBeagleBone,
}

// Default returns a Resolver over RaspberryPi then BeagleBone.
func Default() *Resolver {
	return NewResolver(RaspberryPi, BeagleBone)
}

func newRaspberryPi(o Options) (gpio.GPIO, error) {
	var opts []rpi.Option
	if o.NumberingMode != "" {
		opts = append(opts, rpi.WithMode(rpi.NumberingMode(o.NumberingMode)))
	}
	drv, err := rpi.Open()
	if err != nil {
		return nil, err
	}
	a, err := rpi.New(drv, opts...)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return a, nil
}

func newBeagleBone(o Options) (gpio.GPIO, error) {
	if o.NumberingMode != "" {
		return nil, fmt.Errorf("unexpected numbering mode %q: %w", o.NumberingMode, gpio.ErrInvalidArgument)
	}
	drv, err := bone.Open()
	if err != nil {
		return nil, err
	}
	return bone.New(drv), nil
}

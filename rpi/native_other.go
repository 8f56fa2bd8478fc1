//go:build !linux

package rpi

import "gpiohal/gpio"

// Native is unavailable off Linux; Open always fails.
type Native struct{}

var _ Driver = (*Native)(nil)

// Open returns ErrUnavailable.
func Open() (*Native, error) { return nil, ErrUnavailable }

func (*Native) Close() error                  { return nil }
func (*Native) SetWarnings(bool)              {}
func (*Native) SetMode(NumberingMode) error   { return ErrUnavailable }
func (*Native) Setup(gpio.Pin, PinMode) error { return ErrUnavailable }
func (*Native) Output(gpio.Pin, bool) error   { return ErrUnavailable }
func (*Native) Input(gpio.Pin) (bool, error)  { return false, ErrUnavailable }

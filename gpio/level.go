package gpio

import (
	"fmt"
	"strconv"
	"strings"
)

// Pin names a single GPIO pin.  The meaning is platform defined: a BCM or
// header number on a Raspberry Pi ("17"), a header name on a BeagleBone
// ("P8_10").  This package never validates it; the native driver does.
type Pin string

// PinNum returns the Pin for a numeric pin identifier.
func PinNum(n int) Pin { return Pin(strconv.Itoa(n)) }

func (p Pin) String() string { return string(p) }

// Direction selects whether a pin drives or senses a level.
type Direction int

const (
	// Out configures a pin to drive a level.
	Out Direction = 0
	// In configures a pin to sense a level.
	In Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case In:
		return "in"
	}
	return "Direction(" + strconv.Itoa(int(d)) + ")"
}

// ParseDirection parses "in" or "out", ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "out", "output":
		return Out, nil
	case "in", "input":
		return In, nil
	}
	return 0, fmt.Errorf("direction %q: %w", s, ErrInvalidArgument)
}

// Level is the logical level of a pin.  It is defined on bool so that
// High == true and Low == false hold everywhere: Level(b) and bool(l)
// convert between the two at no cost.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// ParseLevel parses 1/0, high/low, true/false and on/off, ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "high", "true", "on":
		return High, nil
	case "0", "low", "false", "off":
		return Low, nil
	}
	return Low, fmt.Errorf("level %q: %w", s, ErrInvalidArgument)
}

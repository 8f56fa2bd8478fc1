// Package gpiotest provides an in-memory gpio.GPIO for tests.
package gpiotest

import (
	"fmt"
	"sync"

	"gpiohal/gpio"
)

// Call records one primitive invoked on a Memory.
type Call struct {
	Op    string // "setup", "output" or "input"
	Pin   gpio.Pin
	Dir   gpio.Direction
	Level gpio.Level
}

func (c Call) String() string {
	switch c.Op {
	case "setup":
		return fmt.Sprintf("setup(%s, %s)", c.Pin, c.Dir)
	case "output":
		return fmt.Sprintf("output(%s, %s)", c.Pin, c.Level)
	}
	return fmt.Sprintf("%s(%s)", c.Op, c.Pin)
}

// Memory echoes the last level written to each pin back on Input.  Pins
// listed in Fail return that error from every primitive.  It is safe for
// concurrent use.
type Memory struct {
	mu     sync.Mutex
	dirs   map[gpio.Pin]gpio.Direction
	levels map[gpio.Pin]gpio.Level
	calls  []Call

	Fail map[gpio.Pin]error
}

var _ gpio.GPIO = (*Memory)(nil)

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		dirs:   make(map[gpio.Pin]gpio.Direction),
		levels: make(map[gpio.Pin]gpio.Level),
		Fail:   make(map[gpio.Pin]error),
	}
}

func (m *Memory) Setup(pin gpio.Pin, dir gpio.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "setup", Pin: pin, Dir: dir})
	if err := m.Fail[pin]; err != nil {
		return err
	}
	m.dirs[pin] = dir
	return nil
}

func (m *Memory) Output(pin gpio.Pin, v gpio.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "output", Pin: pin, Level: v})
	if err := m.Fail[pin]; err != nil {
		return err
	}
	m.levels[pin] = v
	return nil
}

func (m *Memory) Input(pin gpio.Pin) (gpio.Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "input", Pin: pin})
	if err := m.Fail[pin]; err != nil {
		return gpio.Low, err
	}
	return m.levels[pin], nil
}

// Set forces the level later returned by Input, as if driven externally.
// It is not recorded as a call.
func (m *Memory) Set(pin gpio.Pin, v gpio.Level) {
	m.mu.Lock()
	m.levels[pin] = v
	m.mu.Unlock()
}

// Direction returns the direction pin was last set up with.
func (m *Memory) Direction(pin gpio.Pin) (gpio.Direction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dirs[pin]
	return d, ok
}

// Calls returns a copy of the recorded calls in order.
func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Reset forgets the recorded calls.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

package bone

import (
	"errors"
	"reflect"
	"testing"

	"github.com/edaniels/golog"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"gpiohal/gpio"
)

type fakeDriver struct {
	calls  []string
	levels map[gpio.Pin]bool
	err    error
}

func (f *fakeDriver) Setup(p gpio.Pin, m PinMode) error {
	name := "setup-out"
	if m == Input {
		name = "setup-in"
	}
	f.calls = append(f.calls, name+":"+string(p))
	return f.err
}

func (f *fakeDriver) Output(p gpio.Pin, v bool) error {
	f.calls = append(f.calls, "output:"+string(p))
	f.levels[p] = v
	return f.err
}

func (f *fakeDriver) Input(p gpio.Pin) (bool, error) {
	f.calls = append(f.calls, "input:"+string(p))
	return f.levels[p], f.err
}

func TestAdapterForwardsOnce(t *testing.T) {
	f := &fakeDriver{levels: make(map[gpio.Pin]bool)}
	a := New(f)
	if err := a.Setup("P8_10", gpio.Out); err != nil {
		t.Fatal(err)
	}
	if err := gpio.SetHigh(a, "P8_10"); err != nil {
		t.Fatal(err)
	}
	if hi, err := gpio.IsHigh(a, "P8_10"); err != nil || !hi {
		t.Fatalf("IsHigh = %v, %v", hi, err)
	}
	if err := a.Setup("P9_12", gpio.In); err != nil {
		t.Fatal(err)
	}
	want := []string{"setup-out:P8_10", "output:P8_10", "input:P8_10", "setup-in:P9_12"}
	if !reflect.DeepEqual(f.calls, want) {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
}

func TestAdapterDriverErrorUnchanged(t *testing.T) {
	boom := errors.New("no such pin")
	f := &fakeDriver{levels: make(map[gpio.Pin]bool), err: boom}
	a := New(f)
	if err := a.Setup("P8_99", gpio.In); err != boom {
		t.Fatalf("err = %v", err)
	}
	if v, err := a.Input("P8_99"); err != boom || v != gpio.Low {
		t.Fatalf("Input = %v, %v", v, err)
	}
}

func newTestNative(t *testing.T, pins ...*gpiotest.Pin) *Native {
	byName := make(map[string]pgpio.PinIO)
	for _, p := range pins {
		byName[p.N] = p
	}
	return &Native{
		log: golog.NewTestLogger(t),
		lookup: func(name string) pgpio.PinIO {
			if p, ok := byName[name]; ok {
				return p
			}
			return nil
		},
	}
}

func TestNativeRoundTrip(t *testing.T) {
	p := &gpiotest.Pin{N: "P8_10", Num: 68, L: pgpio.Low}
	n := newTestNative(t, p)
	a := New(n)
	if err := a.Setup("P8_10", gpio.Out); err != nil {
		t.Fatal(err)
	}
	if err := a.Output("P8_10", gpio.High); err != nil {
		t.Fatal(err)
	}
	if p.L != pgpio.High {
		t.Fatalf("periph pin level = %v", p.L)
	}
	if lo, err := gpio.IsLow(a, "P8_10"); err != nil || lo {
		t.Fatalf("IsLow = %v, %v", lo, err)
	}
	if err := a.Setup("P8_10", gpio.In); err != nil {
		t.Fatal(err)
	}
}

func TestNativeUnknownPin(t *testing.T) {
	n := newTestNative(t)
	if err := n.Setup("P8_77", Output); !errors.Is(err, ErrUnknownPin) {
		t.Fatalf("Setup err = %v", err)
	}
	if err := n.Output("P8_77", true); !errors.Is(err, ErrUnknownPin) {
		t.Fatalf("Output err = %v", err)
	}
	if _, err := n.Input("P8_77"); !errors.Is(err, ErrUnknownPin) {
		t.Fatalf("Input err = %v", err)
	}
}

package platform

import (
	"errors"
	"strings"
	"testing"

	"gpiohal/gpio"
	"gpiohal/gpio/gpiotest"
)

// stubFamily returns a copy of f whose constructor records its options
// instead of opening a native driver.
func stubFamily(f Family, got *[]string, opts *Options) Family {
	f.New = func(o Options) (gpio.GPIO, error) {
		*got = append(*got, f.Name)
		*opts = o
		return gpiotest.NewMemory(), nil
	}
	return f
}

func TestResolveSelectsFamily(t *testing.T) {
	var built []string
	var opts Options
	r := NewResolver(stubFamily(RaspberryPi, &built, &opts), stubFamily(BeagleBone, &built, &opts))

	cases := map[string]string{
		"Linux-3.10.25+-armv6l-with-debian-7.4":      "raspberrypi",
		"Linux-3.8.13-bone47-armv7l-with-debian-7.4": "beaglebone",
		"LINUX-3.10.25+-ARMV6L-WITH-DEBIAN-7.4":      "raspberrypi",
	}
	for desc, want := range cases {
		built = nil
		g, err := r.Resolve(desc)
		if err != nil {
			t.Fatalf("%s: %v", desc, err)
		}
		if g == nil {
			t.Fatalf("%s: nil adapter", desc)
		}
		if len(built) != 1 || built[0] != want {
			t.Fatalf("%s: built %v, want %s", desc, built, want)
		}
	}
}

func TestResolveUndetermined(t *testing.T) {
	_, err := Default().Resolve("")
	if !errors.Is(err, ErrPlatformUndetermined) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveUnsupported(t *testing.T) {
	const desc = "Darwin-unrelated-string"
	_, err := Default().Resolve(desc)
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("err = %v", err)
	}
	var ue *UnsupportedPlatformError
	if !errors.As(err, &ue) || ue.Descriptor != desc {
		t.Fatalf("descriptor not carried: %v", err)
	}
	if !strings.Contains(err.Error(), desc) {
		t.Fatalf("message %q lacks descriptor", err)
	}
}

func TestFirstMatchWins(t *testing.T) {
	var built []string
	var opts Options
	a := stubFamily(Family{Name: "a", Token: "arm"}, &built, &opts)
	b := stubFamily(Family{Name: "b", Token: "armv7l"}, &built, &opts)
	if _, err := NewResolver(a, b).Resolve("Linux-armv7l"); err != nil {
		t.Fatal(err)
	}
	if _, err := NewResolver(b, a).Resolve("Linux-armv7l"); err != nil {
		t.Fatal(err)
	}
	if strings.Join(built, ",") != "a,b" {
		t.Fatalf("built = %v", built)
	}
}

func TestOptionsForwarded(t *testing.T) {
	var built []string
	var opts Options
	r := NewResolver(stubFamily(RaspberryPi, &built, &opts))
	if _, err := r.Resolve("Linux-3.10.25+-armv6l-with-debian-7.4", WithNumberingMode("BOARD")); err != nil {
		t.Fatal(err)
	}
	if opts.NumberingMode != "BOARD" {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestConstructorErrorWrapped(t *testing.T) {
	boom := errors.New("no /dev/gpiomem")
	r := NewResolver(Family{Name: "x", Token: "x", New: func(Options) (gpio.GPIO, error) { return nil, boom }})
	if _, err := r.Resolve("x"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestBeagleBoneRejectsNumberingMode(t *testing.T) {
	_, err := newBeagleBone(Options{NumberingMode: "BCM"})
	if !errors.Is(err, gpio.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestMatchDefaultOrder(t *testing.T) {
	fs := Default().Families()
	if len(fs) != 2 || fs[0].Name != "raspberrypi" || fs[1].Name != "beaglebone" {
		t.Fatalf("families = %v", fs)
	}
	f, err := Default().Match("Linux-3.8.13-bone47-armv7l-with-debian-7.4")
	if err != nil || f.Name != "beaglebone" {
		t.Fatalf("Match = %v, %v", f.Name, err)
	}
}

func TestErrorStringsStable(t *testing.T) {
	if ErrPlatformUndetermined.Error() != "platform_undetermined" || ErrUnsupportedPlatform.Error() != "unsupported_platform" {
		t.Fatal("sentinel strings changed")
	}
}

// Package platform selects a gpio adapter from a platform descriptor.
//
// A descriptor is the loosely structured string returned by Current, for
// example "Linux-3.10.25+-armv6l-with-debian-7.4".  Families are tried in
// order and the first whose token occurs in the descriptor, ignoring case,
// wins.  Matching on architecture tokens is brittle: a new board reporting
// the same architecture will be taken for the first family that claims it.
package platform

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"gpiohal/gpio"
)

var (
	ErrPlatformUndetermined = errors.New("platform_undetermined")
	ErrUnsupportedPlatform  = errors.New("unsupported_platform")
)

// UnsupportedPlatformError carries the descriptor that matched no family.
type UnsupportedPlatformError struct {
	Descriptor string
}

func (e *UnsupportedPlatformError) Error() string {
	return "unsupported platform: " + e.Descriptor
}

func (e *UnsupportedPlatformError) Is(target error) bool { return target == ErrUnsupportedPlatform }

// Options are forwarded unchanged to the constructor of the matched family.
type Options struct {
	NumberingMode string
}

// Option sets a field of Options.
type Option func(*Options)

// WithNumberingMode asks for a pin numbering mode.  Families without a
// numbering concept reject it.
func WithNumberingMode(m string) Option {
	return func(o *Options) { o.NumberingMode = m }
}

// Family describes one board family.  New opens the family's native driver;
// it is only called once the family has been selected.
type Family struct {
	Name  string
	Token string
	New   func(Options) (gpio.GPIO, error)
}

// Resolver picks a Family for a descriptor.
type Resolver struct {
	families []Family
}

// NewResolver returns a Resolver trying families in the given order.
func NewResolver(families ...Family) *Resolver {
	return &Resolver{families: families}
}

// Families returns the families in matching order.
func (r *Resolver) Families() []Family {
	return slices.Clone(r.families)
}

// Match returns the first family whose token occurs in descriptor.
func (r *Resolver) Match(descriptor string) (Family, error) {
	if descriptor == "" {
		return Family{}, ErrPlatformUndetermined
	}
	d := strings.ToLower(descriptor)
	i := slices.IndexFunc(r.families, func(f Family) bool {
		return strings.Contains(d, strings.ToLower(f.Token))
	})
	if i < 0 {
		return Family{}, &UnsupportedPlatformError{Descriptor: descriptor}
	}
	return r.families[i], nil
}

// Resolve matches descriptor and constructs that family's adapter.
func (r *Resolver) Resolve(descriptor string, opts ...Option) (gpio.GPIO, error) {
	f, err := r.Match(descriptor)
	if err != nil {
		return nil, err
	}
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	g, err := f.New(o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	return g, nil
}

// Resolve uses the default families.
func Resolve(descriptor string, opts ...Option) (gpio.GPIO, error) {
	return Default().Resolve(descriptor, opts...)
}

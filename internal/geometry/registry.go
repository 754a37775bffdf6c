package geometry

import (
	"fmt"
	"strings"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/monitoring"
)

// Options carries the collaborators a geometry may need.
type Options struct {
	Limits   LimitSource
	Reporter monitoring.Reporter
}

var registry = map[string]func(Options) Variant{
	"fourc":              func(Options) Variant { return NewFourCircle() },
	"fivec":              func(Options) Variant { return NewFiveCircle() },
	"sixc":               func(Options) Variant { return NewSixCircle() },
	"sixc_gamma_on_base": func(o Options) Variant { return NewSixCircleGammaOnBase(o.Limits, o.Reporter) },
}

// New builds the named geometry.
func New(name string, opts Options) (Variant, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown geometry %q (known: %s)",
			angles.ErrValidation, name, strings.Join(Names(), ", "))
	}
	return ctor(opts), nil
}

// PhysicalNames returns the physical axes of the named geometry without
// building it.
func PhysicalNames(name string) ([]angles.Name, error) {
	v, err := New(name, Options{})
	if err != nil {
		return nil, err
	}
	return v.PhysicalNames(), nil
}

// Package geometry maps the canonical six-axis orientation onto the
// physical axes of concrete diffractometers.
package geometry

import (
	"fmt"
	"sort"

	"github.com/banshee-data/diffcalc/internal/angles"
)

// Mounting describes where the out-of-plane detector circle sits.
type Mounting string

const (
	GammaAbsent Mounting = "none"
	GammaOnArm  Mounting = "arm"
	GammaOnBase Mounting = "base"
)

// Variant is one instrument geometry.
type Variant interface {
	Name() string
	// ModeGroups names the solver mode groups this geometry supports.
	ModeGroups() []string
	// FixedAxes are canonical axes held at a constant on this instrument.
	FixedAxes() map[angles.Name]float64
	// PhysicalNames lists the physical axes in instrument order.
	PhysicalNames() []angles.Name
	Mounting() Mounting
	PhysicalToCanonical(p angles.PhysicalAngles) (angles.Orientation, error)
	CanonicalToPhysical(o angles.Orientation) (angles.PhysicalAngles, error)
}

// LimitSource exposes the travel limits a geometry may consult.
type LimitSource interface {
	Limits(axis angles.NamedAxis) (lower, upper *float64, err error)
}

// mapped is the common behaviour of every variant: it copies the physical
// axes into the canonical orientation and fills the fixed ones.
type mapped struct {
	name       string
	modeGroups []string
	fixed      map[angles.Name]float64
	physical   []angles.Name
	mounting   Mounting
}

func (m *mapped) Name() string         { return m.name }
func (m *mapped) ModeGroups() []string { return append([]string{}, m.modeGroups...) }
func (m *mapped) Mounting() Mounting   { return m.mounting }
func (m *mapped) PhysicalNames() []angles.Name {
	return append([]angles.Name{}, m.physical...)
}

func (m *mapped) FixedAxes() map[angles.Name]float64 {
	out := make(map[angles.Name]float64, len(m.fixed))
	for k, v := range m.fixed {
		out[k] = v
	}
	return out
}

func (m *mapped) checkArity(p angles.PhysicalAngles) error {
	if len(p) != len(m.physical) {
		return fmt.Errorf("%w: %s expects %d physical angles %v, got %d",
			angles.ErrValidation, m.name, len(m.physical), m.physical, len(p))
	}
	return nil
}

func (m *mapped) PhysicalToCanonical(p angles.PhysicalAngles) (angles.Orientation, error) {
	if err := m.checkArity(p); err != nil {
		return angles.Orientation{}, err
	}
	var o angles.Orientation
	var err error
	for n, v := range m.fixed {
		if o, err = o.With(n, v); err != nil {
			return o, err
		}
	}
	for i, n := range m.physical {
		if o, err = o.With(n, p[i]); err != nil {
			return o, err
		}
	}
	return o, nil
}

func (m *mapped) CanonicalToPhysical(o angles.Orientation) (angles.PhysicalAngles, error) {
	p := make(angles.PhysicalAngles, len(m.physical))
	for i, n := range m.physical {
		v, err := o.Get(n)
		if err != nil {
			return nil, err
		}
		p[i] = v
	}
	return p, nil
}

// NewFourCircle returns the four-circle geometry: alpha and gamma fixed at 0.
func NewFourCircle() Variant {
	return &mapped{
		name:       "fourc",
		modeGroups: []string{"fourc"},
		fixed:      map[angles.Name]float64{angles.Alpha: 0, angles.Gamma: 0},
		physical:   []angles.Name{angles.Delta, angles.Omega, angles.Chi, angles.Phi},
		mounting:   GammaAbsent,
	}
}

// NewFiveCircle returns the five-circle geometry: gamma fixed at 0.
func NewFiveCircle() Variant {
	return &mapped{
		name:       "fivec",
		modeGroups: []string{"fourc", "fivec"},
		fixed:      map[angles.Name]float64{angles.Gamma: 0},
		physical:   []angles.Name{angles.Alpha, angles.Delta, angles.Omega, angles.Chi, angles.Phi},
		mounting:   GammaAbsent,
	}
}

// NewSixCircle returns the six-circle geometry with gamma on the delta arm,
// which is the canonical convention.
func NewSixCircle() Variant {
	return &mapped{
		name:       "sixc",
		modeGroups: []string{"fourc", "fivec", "zaxis"},
		fixed:      map[angles.Name]float64{},
		physical:   append([]angles.Name{}, angles.CanonicalNames...),
		mounting:   GammaOnArm,
	}
}

// Names returns the registered geometry names.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

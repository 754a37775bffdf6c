// Package angles defines the canonical six-axis diffractometer orientation,
// physical angle tuples and the two angle-folding operations: the
// configurable hardware cut and the fixed symmetric fold used for sector
// enumeration.
package angles

import (
	"fmt"
	"math"
	"strings"
)

// Name identifies a diffractometer axis.
type Name string

const (
	Alpha Name = "alpha"
	Delta Name = "delta"
	Gamma Name = "gamma"
	Omega Name = "omega"
	Chi   Name = "chi"
	Phi   Name = "phi"
)

// CanonicalNames lists the axes of an Orientation in canonical order.
var CanonicalNames = []Name{Alpha, Delta, Gamma, Omega, Chi, Phi}

// NamedAxis is anything that can identify itself as a diffractometer axis,
// e.g. a Name or a motor adapter owned by the beamline layer.
type NamedAxis interface {
	AxisName() Name
}

// AxisName lets a bare Name be used where a NamedAxis is expected.
func (n Name) AxisName() Name { return n }

// ParseName converts a string into a canonical axis name.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range CanonicalNames {
		if n == c {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: unknown axis %q", ErrValidation, s)
}

// Orientation is the canonical (internal) diffractometer position in degrees.
// Alpha and Delta frame the incident and exit beam, Gamma is the out-of-plane
// detector axis, and Omega, Chi and Phi orient the sample.
type Orientation struct {
	Alpha float64 `json:"alpha"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Omega float64 `json:"omega"`
	Chi   float64 `json:"chi"`
	Phi   float64 `json:"phi"`
}

// FromValues builds an Orientation from values in canonical order.
func FromValues(v [6]float64) Orientation {
	return Orientation{Alpha: v[0], Delta: v[1], Gamma: v[2], Omega: v[3], Chi: v[4], Phi: v[5]}
}

// Values returns the axis values in canonical order.
func (o Orientation) Values() [6]float64 {
	return [6]float64{o.Alpha, o.Delta, o.Gamma, o.Omega, o.Chi, o.Phi}
}

// Get returns the value of the named axis.
func (o Orientation) Get(axis NamedAxis) (float64, error) {
	switch axis.AxisName() {
	case Alpha:
		return o.Alpha, nil
	case Delta:
		return o.Delta, nil
	case Gamma:
		return o.Gamma, nil
	case Omega:
		return o.Omega, nil
	case Chi:
		return o.Chi, nil
	case Phi:
		return o.Phi, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrValidation, axis.AxisName())
}

// With returns a copy of o with the named axis replaced.
func (o Orientation) With(axis NamedAxis, value float64) (Orientation, error) {
	switch axis.AxisName() {
	case Alpha:
		o.Alpha = value
	case Delta:
		o.Delta = value
	case Gamma:
		o.Gamma = value
	case Omega:
		o.Omega = value
	case Chi:
		o.Chi = value
	case Phi:
		o.Phi = value
	default:
		return o, fmt.Errorf("%w: unknown axis %q", ErrValidation, axis.AxisName())
	}
	return o, nil
}

// Map applies f to every axis.
func (o Orientation) Map(f func(float64) float64) Orientation {
	v := o.Values()
	for i := range v {
		v[i] = f(v[i])
	}
	return FromValues(v)
}

func (o Orientation) String() string {
	return fmt.Sprintf("alpha=%.4f delta=%.4f gamma=%.4f omega=%.4f chi=%.4f phi=%.4f",
		o.Alpha, o.Delta, o.Gamma, o.Omega, o.Chi, o.Phi)
}

// PhysicalAngles is a motor position in the instrument's own axis order.
type PhysicalAngles []float64

// Clone returns an independent copy.
func (p PhysicalAngles) Clone() PhysicalAngles {
	out := make(PhysicalAngles, len(p))
	copy(out, p)
	return out
}

// CheckFinite returns ErrValidation naming the first NaN or infinite axis.
func (o Orientation) CheckFinite() error {
	for i, v := range o.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite angle (%g)", ErrValidation, CanonicalNames[i], v)
		}
	}
	return nil
}

// CheckFinite returns ErrValidation naming the index of the first NaN or
// infinite value.
func (p PhysicalAngles) CheckFinite() error {
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: angle %d is not finite (%g)", ErrValidation, i, v)
		}
	}
	return nil
}

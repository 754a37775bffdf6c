// Package hardware holds the per-instrument cut angles and travel limits
// for the physical axes of one diffractometer.
package hardware

import (
	"fmt"

	"github.com/banshee-data/diffcalc/internal/angles"
)

// DefaultCut is the cut angle every axis starts with, except the sample
// azimuth which starts at DefaultPhiCut.
const (
	DefaultCut    = -180.0
	DefaultPhiCut = 0.0
)

// Table stores cut angles and limits keyed by physical axis name. A nil cut
// means the axis is never cut; a nil bound means that side is unbounded.
// Table is not safe for concurrent use.
type Table struct {
	names []angles.Name
	cuts  map[angles.Name]*float64
	lower map[angles.Name]*float64
	upper map[angles.Name]*float64
}

// NewTable creates a table for the given physical axes with default cuts and
// no limits.
func NewTable(names []angles.Name) *Table {
	t := &Table{
		names: append([]angles.Name(nil), names...),
		cuts:  make(map[angles.Name]*float64, len(names)),
		lower: make(map[angles.Name]*float64, len(names)),
		upper: make(map[angles.Name]*float64, len(names)),
	}
	for _, n := range names {
		cut := DefaultCut
		if n == angles.Phi {
			cut = DefaultPhiCut
		}
		t.cuts[n] = &cut
	}
	return t
}

// Names returns the physical axis names in instrument order.
func (t *Table) Names() []angles.Name {
	return append([]angles.Name(nil), t.names...)
}

func (t *Table) check(axis angles.NamedAxis) (angles.Name, error) {
	n := axis.AxisName()
	for _, known := range t.names {
		if known == n {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: unknown axis %q (known: %v)", angles.ErrValidation, n, t.names)
}

func copyPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// SetCut sets the cut angle for an axis; nil disables cutting.
func (t *Table) SetCut(axis angles.NamedAxis, value *float64) error {
	n, err := t.check(axis)
	if err != nil {
		return err
	}
	t.cuts[n] = copyPtr(value)
	return nil
}

// SetLowerLimit sets or clears (nil) the lower travel limit of an axis.
func (t *Table) SetLowerLimit(axis angles.NamedAxis, value *float64) error {
	n, err := t.check(axis)
	if err != nil {
		return err
	}
	t.lower[n] = copyPtr(value)
	return nil
}

// SetUpperLimit sets or clears (nil) the upper travel limit of an axis.
func (t *Table) SetUpperLimit(axis angles.NamedAxis, value *float64) error {
	n, err := t.check(axis)
	if err != nil {
		return err
	}
	t.upper[n] = copyPtr(value)
	return nil
}

// CutAngle returns the configured cut angle of an axis, nil if disabled.
func (t *Table) CutAngle(axis angles.NamedAxis) (*float64, error) {
	n, err := t.check(axis)
	if err != nil {
		return nil, err
	}
	return copyPtr(t.cuts[n]), nil
}

// Limits returns the lower and upper bound of an axis.
func (t *Table) Limits(axis angles.NamedAxis) (lower, upper *float64, err error) {
	n, err := t.check(axis)
	if err != nil {
		return nil, nil, err
	}
	return copyPtr(t.lower[n]), copyPtr(t.upper[n]), nil
}

// Cut folds value into the axis' configured window.
func (t *Table) Cut(axis angles.NamedAxis, value float64) (float64, error) {
	n, err := t.check(axis)
	if err != nil {
		return 0, err
	}
	if c := t.cuts[n]; c != nil {
		return angles.Cut(value, *c), nil
	}
	return value, nil
}

// CutAll cuts every value of a physical tuple given in instrument order.
func (t *Table) CutAll(p angles.PhysicalAngles) (angles.PhysicalAngles, error) {
	if err := t.checkArity(p); err != nil {
		return nil, err
	}
	out := make(angles.PhysicalAngles, len(p))
	for i, n := range t.names {
		v, err := t.Cut(n, p[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *Table) checkArity(p angles.PhysicalAngles) error {
	if len(p) != len(t.names) {
		return fmt.Errorf("%w: expected %d physical angles %v, got %d",
			angles.ErrValidation, len(t.names), t.names, len(p))
	}
	return nil
}

package hardware

import "github.com/banshee-data/diffcalc/internal/angles"

// WithinBounds reports whether value satisfies the optional bounds.
func WithinBounds(value float64, lower, upper *float64) bool {
	if lower != nil && value < *lower {
		return false
	}
	if upper != nil && value > *upper {
		return false
	}
	return true
}

// AxisWithinLimits reports whether value lies inside the limits of an axis.
// Unknown axes are never within limits.
func (t *Table) AxisWithinLimits(axis angles.NamedAxis, value float64) bool {
	n, err := t.check(axis)
	if err != nil {
		return false
	}
	return WithinBounds(value, t.lower[n], t.upper[n])
}

// WithinLimits is the limit predicate for a whole physical position given in
// instrument order. A tuple of the wrong arity is never within limits.
func (t *Table) WithinLimits(p angles.PhysicalAngles) bool {
	if t.checkArity(p) != nil {
		return false
	}
	for i, n := range t.names {
		if !WithinBounds(p[i], t.lower[n], t.upper[n]) {
			return false
		}
	}
	return true
}

// AxisSettings is a snapshot of one axis' configuration.
type AxisSettings struct {
	Name  angles.Name `json:"name"`
	Cut   *float64    `json:"cut"`
	Lower *float64    `json:"lower"`
	Upper *float64    `json:"upper"`
}

// Snapshot returns the settings of every axis in instrument order.
func (t *Table) Snapshot() []AxisSettings {
	out := make([]AxisSettings, 0, len(t.names))
	for _, n := range t.names {
		out = append(out, AxisSettings{
			Name:  n,
			Cut:   copyPtr(t.cuts[n]),
			Lower: copyPtr(t.lower[n]),
			Upper: copyPtr(t.upper[n]),
		})
	}
	return out
}

// Package resolver turns canonical orientations produced by the hkl solver
// into limit-satisfying, cut physical motor angles for one instrument
// session, and back.
package resolver

import (
	"fmt"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/geometry"
	"github.com/banshee-data/diffcalc/internal/hardware"
	"github.com/banshee-data/diffcalc/internal/monitoring"
	"github.com/banshee-data/diffcalc/internal/sector"
	"github.com/google/uuid"
)

// Resolver binds one geometry, one hardware table and one selector for the
// lifetime of an instrument session. It is not safe for concurrent use.
type Resolver struct {
	sessionID string
	geometry  geometry.Variant
	hardware  *hardware.Table
	selector  *sector.Selector
	reporter  monitoring.Reporter
}

// New builds a Resolver for the named geometry with default cuts, no limits
// and sector 0. A nil reporter logs diagnostics through monitoring.Logf.
func New(geometryName string, r monitoring.Reporter) (*Resolver, error) {
	names, err := geometry.PhysicalNames(geometryName)
	if err != nil {
		return nil, err
	}
	hw := hardware.NewTable(names)
	g, err := geometry.New(geometryName, geometry.Options{Limits: hw, Reporter: r})
	if err != nil {
		return nil, err
	}
	return NewWith(g, hw, sector.NewSelector(r), r)
}

// NewWith binds existing collaborators. The hardware table must describe
// the geometry's physical axes.
func NewWith(g geometry.Variant, hw *hardware.Table, sel *sector.Selector, r monitoring.Reporter) (*Resolver, error) {
	want, got := g.PhysicalNames(), hw.Names()
	if len(want) != len(got) {
		return nil, fmt.Errorf("%w: hardware axes %v do not match %s axes %v",
			angles.ErrValidation, got, g.Name(), want)
	}
	for i := range want {
		if want[i] != got[i] {
			return nil, fmt.Errorf("%w: hardware axes %v do not match %s axes %v",
				angles.ErrValidation, got, g.Name(), want)
		}
	}
	return &Resolver{
		sessionID: uuid.NewString(),
		geometry:  g,
		hardware:  hw,
		selector:  sel,
		reporter:  r,
	}, nil
}

// SessionID identifies this resolver instance in logs and stored records.
func (r *Resolver) SessionID() string { return r.sessionID }

// Geometry returns the bound geometry.
func (r *Resolver) Geometry() geometry.Variant { return r.geometry }

// Hardware returns the bound cut and limit table.
func (r *Resolver) Hardware() *hardware.Table { return r.hardware }

// Selector returns the bound symmetry selector.
func (r *Resolver) Selector() *sector.Selector { return r.selector }

// physical maps a folded canonical orientation to cut physical angles.
func (r *Resolver) physical(o angles.Orientation) (angles.PhysicalAngles, error) {
	p, err := r.geometry.CanonicalToPhysical(o)
	if err != nil {
		return nil, err
	}
	return r.hardware.CutAll(p)
}

// withinLimits is the validator handed to the selector's auto search.
func (r *Resolver) withinLimits(o angles.Orientation) (bool, error) {
	p, err := r.physical(o)
	if err != nil {
		return false, err
	}
	return r.hardware.WithinLimits(p), nil
}

// Resolve converts a canonical orientation into physical angles. Under an
// auto search configuration the call may change the current sector.
func (r *Resolver) Resolve(o angles.Orientation) (angles.PhysicalAngles, error) {
	if err := o.CheckFinite(); err != nil {
		return nil, err
	}
	sym, err := r.selector.ResolveSymmetry(o, r.withinLimits)
	if err != nil {
		return nil, err
	}
	return r.physical(sym)
}

// ToCanonical converts physical angles into the canonical orientation handed
// back to the hkl solver.
func (r *Resolver) ToCanonical(p angles.PhysicalAngles) (angles.Orientation, error) {
	if err := p.CheckFinite(); err != nil {
		return angles.Orientation{}, err
	}
	return r.geometry.PhysicalToCanonical(p)
}

// IsWithinLimits reports whether physical angles, as given, satisfy every
// configured limit. Non-finite angles are never within limits.
func (r *Resolver) IsWithinLimits(p angles.PhysicalAngles) bool {
	if p.CheckFinite() != nil {
		return false
	}
	return r.hardware.WithinLimits(p)
}

// SetCut sets or clears (nil) the cut angle of a physical axis.
func (r *Resolver) SetCut(axis angles.NamedAxis, value *float64) error {
	return r.hardware.SetCut(axis, value)
}

// SetLowerLimit sets or clears (nil) the lower limit of a physical axis.
func (r *Resolver) SetLowerLimit(axis angles.NamedAxis, value *float64) error {
	return r.hardware.SetLowerLimit(axis, value)
}

// SetUpperLimit sets or clears (nil) the upper limit of a physical axis.
func (r *Resolver) SetUpperLimit(axis angles.NamedAxis, value *float64) error {
	return r.hardware.SetUpperLimit(axis, value)
}

// Status is the state reported to consoles and the HTTP API.
type Status struct {
	SessionID string                  `json:"session_id"`
	Geometry  string                  `json:"geometry"`
	Mounting  geometry.Mounting       `json:"gamma_mounting"`
	Axes      []angles.Name           `json:"axes"`
	Selector  sector.Status           `json:"selector"`
	Hardware  []hardware.AxisSettings `json:"hardware"`
}

// Status returns the current session state.
func (r *Resolver) Status() Status {
	return Status{
		SessionID: r.sessionID,
		Geometry:  r.geometry.Name(),
		Mounting:  r.geometry.Mounting(),
		Axes:      r.geometry.PhysicalNames(),
		Selector:  r.selector.Status(),
		Hardware:  r.hardware.Snapshot(),
	}
}

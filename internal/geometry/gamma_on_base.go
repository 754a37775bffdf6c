package geometry

import (
	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/armbase"
	"github.com/banshee-data/diffcalc/internal/hardware"
	"github.com/banshee-data/diffcalc/internal/monitoring"
)

// gammaOnBase is the six-circle geometry whose gamma circle is fixed to the
// base. Delta and gamma go through the arm/base conversion in both
// directions.
type gammaOnBase struct {
	mapped
	limits    LimitSource
	converter *armbase.Converter
	reporter  monitoring.Reporter
}

// NewSixCircleGammaOnBase returns the gamma-on-base geometry. limits may be
// nil, in which case the gamma limit correction never triggers.
func NewSixCircleGammaOnBase(limits LimitSource, r monitoring.Reporter) Variant {
	return &gammaOnBase{
		mapped: mapped{
			name:       "sixc_gamma_on_base",
			modeGroups: []string{"fourc", "fivec", "zaxis"},
			fixed:      map[angles.Name]float64{},
			physical:   append([]angles.Name{}, angles.CanonicalNames...),
			mounting:   GammaOnBase,
		},
		limits:    limits,
		converter: armbase.New(r),
		reporter:  r,
	}
}

func (g *gammaOnBase) PhysicalToCanonical(p angles.PhysicalAngles) (angles.Orientation, error) {
	o, err := g.mapped.PhysicalToCanonical(p)
	if err != nil {
		return o, err
	}
	o.Delta, o.Gamma, err = g.converter.GammaOnBaseToArm(o.Delta, o.Gamma, o.Alpha)
	if err != nil {
		return angles.Orientation{}, err
	}
	return o, nil
}

func (g *gammaOnBase) CanonicalToPhysical(o angles.Orientation) (angles.PhysicalAngles, error) {
	delta, gamma, err := g.converter.GammaOnArmToBase(o.Delta, o.Gamma, o.Alpha)
	if err != nil {
		return nil, err
	}

	// Only gamma's own bound is consulted; the flipped delta is not
	// re-checked here.
	if g.limits != nil {
		lower, upper, err := g.limits.Limits(angles.Gamma)
		if err != nil {
			return nil, err
		}
		if !hardware.WithinBounds(gamma, lower, upper) {
			flippedDelta, flippedGamma := SupplementaryBase(delta, gamma)
			monitoring.Reportf(g.reporter, monitoring.DiagLimitFlip,
				"gamma %.4f outside limits, using supplementary delta=%.4f gamma=%.4f",
				gamma, flippedDelta, flippedGamma)
			delta, gamma = flippedDelta, flippedGamma
		}
	}

	o.Delta, o.Gamma = delta, gamma
	return g.mapped.CanonicalToPhysical(o)
}

// SupplementaryBase returns the other gamma-on-base pair pointing the
// detector the same way: delta -> 180-delta, gamma -> gamma±180 toward zero.
func SupplementaryBase(delta, gamma float64) (float64, float64) {
	if gamma > 0 {
		return 180 - delta, gamma - 180
	}
	return 180 - delta, gamma + 180
}

package resolver

import (
	"fmt"
	"math"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/sector"
)

// maxCoverageSamples bounds the number of values a single sweep evaluates.
const maxCoverageSamples = 10000

// CoveragePoint records, for one value of the swept axis, which sectors map
// the orientation to physical angles inside every limit.
type CoveragePoint struct {
	Value   float64 `json:"value"`
	Passing []int   `json:"passing"`
}

// SectorCoverage sweeps axis of o from start to stop (inclusive) in steps of
// step and evaluates all eight sectors at each sample. The selector state is
// not changed.
func (r *Resolver) SectorCoverage(o angles.Orientation, axis angles.NamedAxis, start, stop, step float64) ([]CoveragePoint, error) {
	if err := o.CheckFinite(); err != nil {
		return nil, err
	}
	for _, v := range []float64{start, stop, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: sweep bounds must be finite (%g..%g step %g)", angles.ErrValidation, start, stop, step)
		}
	}
	if step <= 0 || stop < start {
		return nil, fmt.Errorf("%w: invalid sweep %g..%g step %g", angles.ErrValidation, start, stop, step)
	}
	span := math.Floor((stop-start)/step + 1e-9)
	if span+1 > maxCoverageSamples {
		return nil, fmt.Errorf("%w: sweep of %.0f samples is too large", angles.ErrValidation, span+1)
	}
	count := int(span) + 1

	points := make([]CoveragePoint, 0, count)
	for i := 0; i < count; i++ {
		v := start + float64(i)*step
		sample, err := o.With(axis, v)
		if err != nil {
			return nil, err
		}
		pt := CoveragePoint{Value: v, Passing: []int{}}
		for n := 0; n < sector.NumSectors; n++ {
			pos, err := sector.TransformWithoutFold(n, sample)
			if err != nil {
				return nil, err
			}
			ok, err := r.withinLimits(angles.FoldSymmetric(pos))
			if err != nil {
				return nil, err
			}
			if ok {
				pt.Passing = append(pt.Passing, n)
			}
		}
		points = append(points, pt)
	}
	return points, nil
}

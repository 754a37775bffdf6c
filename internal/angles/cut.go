package angles

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// CutTolerance is the slack allowed at the edges of a cut window.
const CutTolerance = 1e-6

// Cut folds value into [cutAngle, cutAngle+360) within CutTolerance.
// With a zero cut angle, values on 0 or ±360 are returned as exactly 0 so the
// boundary never flips sign through rounding. Values already inside the
// window are returned unchanged; non-finite values come back as NaN.
func Cut(value, cutAngle float64) float64 {
	if cutAngle == 0 {
		for _, edge := range []float64{0, 360, -360} {
			if scalar.EqualWithinAbs(value, edge, CutTolerance) {
				return 0
			}
		}
	}
	if value >= cutAngle-CutTolerance && value < cutAngle+360+CutTolerance {
		return value
	}
	value = cutAngle + math.Mod(value-cutAngle, 360)
	if value < cutAngle-CutTolerance {
		value += 360
	}
	return value
}

// FoldAngle folds a single value into (-180, 180].
func FoldAngle(value float64) float64 {
	if value > -180+CutTolerance && value <= 180+CutTolerance {
		return value
	}
	value = math.Mod(value, 360)
	if value <= -180+CutTolerance {
		value += 360
	} else if value > 180+CutTolerance {
		value -= 360
	}
	return value
}

// FoldSymmetric folds every axis into (-180, 180]. This is the fixed internal
// fold used before sector enumeration and has nothing to do with the
// configurable hardware cut.
func FoldSymmetric(o Orientation) Orientation {
	return o.Map(FoldAngle)
}

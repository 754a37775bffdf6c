// Package armbase converts the detector angles of a six-circle
// diffractometer between the two mountings of the out-of-plane (gamma)
// circle: riding on the delta arm, or fixed to the base.
//
// With the beam along y the detector direction is
//
//	arm:  (-sin gA,           cos gA cos(a+dA), cos gA sin(a+dA))
//	base: (-sin gB cos dB,    cos gB cos dB,    sin dB)
//
// giving three identities:
//
//	(i)   sin gA            = sin gB cos dB
//	(ii)  cos gA cos(a+dA)  = cos gB cos dB
//	(iii) cos gA sin(a+dA)  = sin dB
//
// Each direction solves two of them, which leaves two roots per unknown, and
// uses the remaining one to pick the consistent pair.
package armbase

import (
	"fmt"
	"math"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/monitoring"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// VerifyTolerance bounds the residual of the verification identity.
	VerifyTolerance = 1e-6
	// SmallCosine is the divisor magnitude below which the ±90° limit is used.
	SmallCosine = 1e-20
)

const (
	toRad = math.Pi / 180
	toDeg = 180 / math.Pi
)

// Converter performs the conversions and reports non-default root choices.
type Converter struct {
	Reporter monitoring.Reporter
}

// New returns a Converter reporting to r (nil means monitoring.LogReporter).
func New(r monitoring.Reporter) *Converter {
	return &Converter{Reporter: r}
}

// rootOrder is the priority in which (first, second) root pairs are tried.
// The first element indexes the unknown solved first.
var rootOrder = [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

var rootLabels = [2]string{"primary", "secondary"}

// asinRoots returns both branches of asin(x) in radians, clamping x into
// [-1, 1] to absorb rounding.
func asinRoots(x float64) [2]float64 {
	x = math.Max(-1, math.Min(1, x))
	s := math.Asin(x)
	return [2]float64{s, math.Pi - s}
}

// quotientRoots solves sin(r) = num/den for r. A divisor below SmallCosine
// is replaced by the ±90° limit carrying the sign of num.
func quotientRoots(num, den float64) [2]float64 {
	if math.Abs(den) < SmallCosine {
		limit := math.Pi / 2
		if num < 0 {
			limit = -limit
		}
		return [2]float64{limit, math.Pi - limit}
	}
	return asinRoots(num / den)
}

// GammaOnArmToBase maps (delta, gamma) of a gamma-on-arm instrument to the
// gamma-on-base values. All angles are in degrees.
func (c *Converter) GammaOnArmToBase(deltaArm, gammaArm, alpha float64) (deltaBase, gammaBase float64, err error) {
	dA, gA, a := deltaArm*toRad, gammaArm*toRad, alpha*toRad

	// (iii) fixes dB; (i) then fixes gB for each dB root.
	dRoots := asinRoots(math.Cos(gA) * math.Sin(a+dA))
	var gRoots [2][2]float64
	for i, dB := range dRoots {
		gRoots[i] = quotientRoots(math.Sin(gA), math.Cos(dB))
	}

	want := math.Cos(gA) * math.Cos(a+dA)
	for n, pair := range rootOrder {
		dB := dRoots[pair[0]]
		gB := gRoots[pair[0]][pair[1]]
		if !scalar.EqualWithinAbs(math.Cos(gB)*math.Cos(dB), want, VerifyTolerance) {
			continue
		}
		if n > 0 {
			c.reportRoot("arm->base", pair, deltaArm, gammaArm, alpha)
		}
		return dB * toDeg, gB * toDeg, nil
	}
	return 0, 0, fmt.Errorf("%w: no consistent root combination converting gamma on arm to base (delta=%g gamma=%g alpha=%g)",
		angles.ErrUnsatisfiable, deltaArm, gammaArm, alpha)
}

// GammaOnBaseToArm maps (delta, gamma) of a gamma-on-base instrument to the
// gamma-on-arm values. All angles are in degrees.
func (c *Converter) GammaOnBaseToArm(deltaBase, gammaBase, alpha float64) (deltaArm, gammaArm float64, err error) {
	dB, gB := deltaBase*toRad, gammaBase*toRad

	// (i) fixes gA; (iii) then fixes a+dA for each gA root.
	gRoots := asinRoots(math.Sin(gB) * math.Cos(dB))
	var sRoots [2][2]float64
	for i, gA := range gRoots {
		sRoots[i] = quotientRoots(math.Sin(dB), math.Cos(gA))
	}

	want := math.Cos(gB) * math.Cos(dB)
	for n, pair := range rootOrder {
		gA := gRoots[pair[0]]
		s := sRoots[pair[0]][pair[1]]
		if !scalar.EqualWithinAbs(math.Cos(gA)*math.Cos(s), want, VerifyTolerance) {
			continue
		}
		if n > 0 {
			c.reportRoot("base->arm", pair, deltaBase, gammaBase, alpha)
		}
		return s*toDeg - alpha, gA * toDeg, nil
	}
	return 0, 0, fmt.Errorf("%w: no consistent root combination converting gamma on base to arm (delta=%g gamma=%g alpha=%g)",
		angles.ErrUnsatisfiable, deltaBase, gammaBase, alpha)
}

func (c *Converter) reportRoot(direction string, pair [2]int, delta, gamma, alpha float64) {
	monitoring.Reportf(c.Reporter, monitoring.DiagNonDefaultRoot,
		"%s conversion chose %s/%s roots for delta=%g gamma=%g alpha=%g; check sign conventions",
		direction, rootLabels[pair[0]], rootLabels[pair[1]], delta, gamma, alpha)
}

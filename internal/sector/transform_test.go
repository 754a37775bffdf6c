package sector

import (
	"fmt"
	"math"
	"testing"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func sampleOrientations() []angles.Orientation {
	return []angles.Orientation{
		angles.FromValues([6]float64{1, 2, 3, 4, 5, 6}),
		angles.FromValues([6]float64{0, 0, 0, 0, 0, 0}),
		angles.FromValues([6]float64{-12.5, 73.1, 8.25, -170, 95.5, 359}),
		angles.FromValues([6]float64{3.3, -44, -1.75, 181, -179.9, -720}),
		angles.FromValues([6]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}),
	}
}

func TestSectorBijection(t *testing.T) {
	for n := 0; n < NumSectors; n++ {
		ts, err := TransformsOf(n)
		require.NoError(t, err)
		back, err := SectorOf(ts)
		require.NoError(t, err)
		assert.Equal(t, n, back, "sector %d via %v", n, ts)
	}

	_, err := TransformsOf(8)
	assert.ErrorIs(t, err, angles.ErrValidation)
	_, err = TransformsOf(-1)
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestSectorOf_AnyOrder(t *testing.T) {
	n, err := SectorOf([]Transform{C, A})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = SectorOf(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = SectorOf([]Transform{A, A})
	assert.ErrorIs(t, err, angles.ErrValidation)
	_, err = SectorOf([]Transform{"d"})
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestTransformWithoutFold_MatchesComposition(t *testing.T) {
	for n := 0; n < NumSectors; n++ {
		ts, err := TransformsOf(n)
		require.NoError(t, err)
		for i, o := range sampleOrientations() {
			t.Run(fmt.Sprintf("sector=%d/o=%d", n, i), func(t *testing.T) {
				want := o
				for _, tr := range ts {
					want, err = Apply(tr, want)
					require.NoError(t, err)
				}
				got, err := TransformWithoutFold(n, o)
				require.NoError(t, err)
				if diff := cmp.Diff(want, got, approx); diff != "" {
					t.Errorf("closed form differs from composition (-want +got):\n%s", diff)
				}
			})
		}
	}

	_, err := TransformWithoutFold(9, angles.Orientation{})
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestTransformWithoutFold_Scenario(t *testing.T) {
	o := angles.FromValues([6]float64{1, 2, 3, 4, 5, 6})

	got, err := TransformWithoutFold(0, o)
	require.NoError(t, err)
	assert.Equal(t, o, got)

	got, err = TransformWithoutFold(1, o)
	require.NoError(t, err)
	want := angles.FromValues([6]float64{1, 2, 3, -176, -5, 186})
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("sector 1 (-want +got):\n%s", diff)
	}
}

func sameModulo360(t *testing.T, want, got angles.Orientation) {
	t.Helper()
	w, g := want.Values(), got.Values()
	for i := range w {
		if d := math.Remainder(w[i]-g[i], 360); math.Abs(d) > 1e-9 {
			t.Errorf("axis %s: %g vs %g differ by %g mod 360", angles.CanonicalNames[i], w[i], g[i], d)
		}
	}
}

func TestTransforms_AreCommutingInvolutions(t *testing.T) {
	for _, o := range sampleOrientations() {
		for _, x := range AllTransforms {
			once, err := Apply(x, o)
			require.NoError(t, err)
			twice, err := Apply(x, once)
			require.NoError(t, err)
			sameModulo360(t, o, twice)

			for _, y := range AllTransforms {
				xy, _ := Apply(y, once)
				yo, _ := Apply(y, o)
				yx, _ := Apply(x, yo)
				sameModulo360(t, xy, yx)
			}
		}
	}

	_, err := Apply("z", angles.Orientation{})
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestParseTransform(t *testing.T) {
	tr, err := ParseTransform(" B ")
	require.NoError(t, err)
	assert.Equal(t, B, tr)

	_, err = ParseTransform("x")
	assert.ErrorIs(t, err, angles.ErrValidation)
}

package resolver

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/config"
	"github.com/banshee-data/diffcalc/internal/geometry"
	"github.com/banshee-data/diffcalc/internal/hardware"
	"github.com/banshee-data/diffcalc/internal/monitoring"
	"github.com/banshee-data/diffcalc/internal/sector"
)

func floatPtr(f float64) *float64 { return &f }

func defaultResolver(t *testing.T) (*Resolver, *monitoring.Recorder) {
	t.Helper()
	rec := &monitoring.Recorder{}
	r, err := FromConfig(config.MustLoadDefaultConfig(), rec)
	require.NoError(t, err)
	return r, rec
}

func TestNew_UnknownGeometry(t *testing.T) {
	_, err := New("kappa", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestResolve_SixCircleSectorZero(t *testing.T) {
	r, err := New("sixc", &monitoring.Recorder{})
	require.NoError(t, err)

	p, err := r.Resolve(angles.Orientation{Delta: 60, Omega: 30, Chi: 10, Phi: -90})
	require.NoError(t, err)
	// phi cuts at 0 by default
	assert.InDeltaSlice(t, []float64{0, 60, 0, 30, 10, 270}, []float64(p), 1e-9)
	assert.Equal(t, 0, r.Selector().Sector())
}

func TestResolve_FourCircle(t *testing.T) {
	r, err := New("fourc", nil)
	require.NoError(t, err)

	p, err := r.Resolve(angles.Orientation{Delta: 60, Omega: 30, Chi: 10, Phi: 20})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{60, 30, 10, 20}, []float64(p), 1e-9)

	o, err := r.ToCanonical(angles.PhysicalAngles{60, 30, 10, 20})
	require.NoError(t, err)
	assert.Equal(t, angles.Orientation{Delta: 60, Omega: 30, Chi: 10, Phi: 20}, o)
}

func TestToCanonical_WrongArity(t *testing.T) {
	r, err := New("fourc", nil)
	require.NoError(t, err)

	_, err = r.ToCanonical(angles.PhysicalAngles{1, 2, 3})
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestResolve_GammaOnBase(t *testing.T) {
	r, err := New("sixc_gamma_on_base", &monitoring.Recorder{})
	require.NoError(t, err)

	p, err := r.Resolve(angles.Orientation{Delta: 60, Omega: 30})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 60, 0, 30, 0, 0}, []float64(p), 1e-6)

	o, err := r.ToCanonical(p)
	require.NoError(t, err)
	assert.InDelta(t, 60, o.Delta, 1e-6)
	assert.InDelta(t, 0, o.Gamma, 1e-6)
}

func TestResolve_AutoSectorFromDefaults(t *testing.T) {
	r, rec := defaultResolver(t)

	// chi 110 is above the chi limit in sector 0; sector 2 maps it to 70
	// while sector 3 maps it to -70.
	o := angles.Orientation{Delta: 60, Omega: 30, Chi: 110, Phi: 20}
	p, err := r.Resolve(o)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 60, 0, 150, 70, 200}, []float64(p), 1e-9)
	assert.Equal(t, 2, r.Selector().Sector())
	assert.True(t, rec.Has(monitoring.DiagSectorChanged))
	assert.False(t, rec.Has(monitoring.DiagMultipleCandidates))
	assert.True(t, r.IsWithinLimits(p))

	rec.Reset()
	again, err := r.Resolve(o)
	require.NoError(t, err)
	assert.Equal(t, p, again)
	assert.Equal(t, 2, r.Selector().Sector())
	assert.False(t, rec.Has(monitoring.DiagSectorChanged))
}

func TestResolve_AutoSectorUnsatisfiable(t *testing.T) {
	r, _ := defaultResolver(t)

	_, err := r.Resolve(angles.Orientation{Delta: 60, Omega: 30, Chi: -20, Phi: 20})
	require.Error(t, err)
	assert.ErrorIs(t, err, angles.ErrUnsatisfiable)
	assert.Equal(t, 0, r.Selector().Sector())
}

func TestIsWithinLimits(t *testing.T) {
	r, _ := defaultResolver(t)

	assert.True(t, r.IsWithinLimits(angles.PhysicalAngles{0, 60, 0, 30, 10, 20}))
	assert.False(t, r.IsWithinLimits(angles.PhysicalAngles{0, 60, 0, 30, 110, 20}))
	assert.False(t, r.IsWithinLimits(angles.PhysicalAngles{0, 60, 0}))
}

func TestSetLimits_ValidateAxis(t *testing.T) {
	r, err := New("fourc", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, r.SetUpperLimit(angles.Gamma, floatPtr(10)), angles.ErrValidation)
	require.NoError(t, r.SetUpperLimit(angles.Chi, floatPtr(10)))
	assert.False(t, r.IsWithinLimits(angles.PhysicalAngles{60, 30, 20, 0}))

	require.NoError(t, r.SetUpperLimit(angles.Chi, nil))
	assert.True(t, r.IsWithinLimits(angles.PhysicalAngles{60, 30, 20, 0}))

	require.NoError(t, r.SetCut(angles.Phi, nil))
	p, err := r.Resolve(angles.Orientation{Delta: 60, Phi: -90})
	require.NoError(t, err)
	assert.InDelta(t, -90, p[3], 1e-9)
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantSector int
		wantErr    error
	}{
		{"transforms select sector", `{"geometry": "fivec", "transforms": ["c", "b"]}`, 3, nil},
		{"explicit sector", `{"geometry": "fourc", "sector": 5}`, 5, nil},
		{"unknown axis name", `{"cuts": {"theta": 0}}`, 0, angles.ErrValidation},
		{"axis not on geometry", `{"geometry": "fourc", "limits": {"gamma": {"upper": 1}}}`, 0, angles.ErrValidation},
		{"unknown geometry", `{"geometry": "kappa"}`, 0, angles.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.ParseInstrumentConfig([]byte(tt.json))
			require.NoError(t, err)

			r, err := FromConfig(cfg, &monitoring.Recorder{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSector, r.Selector().Sector())
		})
	}
}

func TestFromConfig_AutoTransforms(t *testing.T) {
	cfg, err := config.ParseInstrumentConfig([]byte(`{"auto_transforms": ["b", "c"]}`))
	require.NoError(t, err)

	r, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []sector.Transform{sector.B, sector.C}, r.Selector().AutoTransforms())
	assert.Empty(t, r.Selector().AutoSectors())
}

func TestNewWith_MismatchedHardware(t *testing.T) {
	hw := hardware.NewTable([]angles.Name{angles.Delta, angles.Omega})
	_, err := NewWith(geometry.NewFourCircle(), hw, sector.NewSelector(nil), nil)
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestStatus(t *testing.T) {
	r, _ := defaultResolver(t)

	st := r.Status()
	assert.Equal(t, r.SessionID(), st.SessionID)
	assert.Equal(t, "sixc", st.Geometry)
	assert.Equal(t, geometry.GammaOnArm, st.Mounting)
	assert.Equal(t, angles.CanonicalNames, st.Axes)
	assert.Equal(t, []int{2, 3}, st.Selector.AutoSectors)
	require.Len(t, st.Hardware, 6)

	data, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gamma_mounting":"arm"`)
}

func TestSectorCoverage(t *testing.T) {
	r, _ := defaultResolver(t)

	points, err := r.SectorCoverage(angles.Orientation{Delta: 60, Omega: 30, Phi: 20}, angles.Chi, 0, 110, 55)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 0.0, points[0].Value)
	assert.Contains(t, points[0].Passing, 0)
	// chi 110 only fits once sector 2 maps it to 70
	assert.Equal(t, 110.0, points[2].Value)
	assert.NotContains(t, points[2].Passing, 0)
	assert.Contains(t, points[2].Passing, 2)
	assert.Equal(t, 0, r.Selector().Sector(), "coverage must not move the selector")

	_, err = r.SectorCoverage(angles.Orientation{}, angles.Chi, 10, 0, 1)
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestResolve_NonFiniteInput(t *testing.T) {
	r, rec := defaultResolver(t)

	_, err := r.Resolve(angles.Orientation{Delta: 60, Phi: math.NaN()})
	assert.ErrorIs(t, err, angles.ErrValidation)
	_, err = r.Resolve(angles.Orientation{Omega: math.Inf(1)})
	assert.ErrorIs(t, err, angles.ErrValidation)

	_, err = r.ToCanonical(angles.PhysicalAngles{0, 60, 0, math.NaN(), 0, 0})
	assert.ErrorIs(t, err, angles.ErrValidation)
	assert.False(t, r.IsWithinLimits(angles.PhysicalAngles{0, 60, 0, 30, math.NaN(), 20}))

	assert.Equal(t, 0, r.Selector().Sector())
	assert.Zero(t, rec.Count(monitoring.DiagSectorChanged))
}

func TestResolve_HugeAnglesFold(t *testing.T) {
	r, _ := defaultResolver(t)

	p, err := r.Resolve(angles.Orientation{Delta: 60, Omega: 30, Phi: 1e300})
	require.NoError(t, err)
	require.Len(t, p, 6)
	for i, v := range p {
		assert.False(t, math.IsNaN(v), "axis %d", i)
	}
	// phi is cut at 0
	assert.GreaterOrEqual(t, p[5], -angles.CutTolerance)
	assert.Less(t, p[5], 360+angles.CutTolerance)

	// a full number of turns resolves like the plain value
	plain, err := r.Resolve(angles.Orientation{Delta: 60, Omega: 30, Phi: 20})
	require.NoError(t, err)
	turned, err := r.Resolve(angles.Orientation{Delta: 60, Omega: 30, Phi: 20 + 360*1e9})
	require.NoError(t, err)
	if diff := cmp.Diff(plain, turned, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("resolve after whole turns mismatch (-plain +turned):\n%s", diff)
	}
}

func TestSectorCoverage_RejectsBadSweeps(t *testing.T) {
	r, _ := defaultResolver(t)
	o := angles.Orientation{Delta: 60, Omega: 30, Phi: 20}

	tests := []struct {
		name              string
		start, stop, step float64
	}{
		{"nan stop", 0, math.NaN(), 1},
		{"nan start", math.NaN(), 10, 1},
		{"nan step", 0, 10, math.NaN()},
		{"infinite stop", 0, math.Inf(1), 1},
		{"infinite start", math.Inf(-1), 0, 1},
		{"span overflows", -math.MaxFloat64, math.MaxFloat64, 1},
		{"too many samples", -1e300, 1e300, 1},
		{"zero step", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.SectorCoverage(o, angles.Omega, tt.start, tt.stop, tt.step)
			assert.ErrorIs(t, err, angles.ErrValidation)
		})
	}

	_, err := r.SectorCoverage(angles.Orientation{Chi: math.NaN()}, angles.Omega, 0, 10, 1)
	assert.ErrorIs(t, err, angles.ErrValidation)
}

func TestSectorCoverage_HugeSingleSample(t *testing.T) {
	r, _ := defaultResolver(t)
	points, err := r.SectorCoverage(angles.Orientation{Delta: 60}, angles.Omega, 1e300, 1e300, 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1e300, points[0].Value)
}

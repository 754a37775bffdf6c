package resolver

import (
	"fmt"
	"sort"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/config"
	"github.com/banshee-data/diffcalc/internal/monitoring"
	"github.com/banshee-data/diffcalc/internal/sector"
)

// FromConfig builds a Resolver for an instrument description. Cut and limit
// entries must name physical axes of the configured geometry.
func FromConfig(cfg *config.InstrumentConfig, r monitoring.Reporter) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", angles.ErrValidation, err)
	}
	res, err := New(cfg.GetGeometry(), r)
	if err != nil {
		return nil, err
	}

	for _, key := range sortedKeys(cfg.Cuts) {
		axis, err := angles.ParseName(key)
		if err != nil {
			return nil, fmt.Errorf("failed to apply cut: %w", err)
		}
		if err := res.SetCut(axis, cfg.Cuts[key]); err != nil {
			return nil, fmt.Errorf("failed to apply cut: %w", err)
		}
	}
	for _, key := range sortedKeys(cfg.Limits) {
		axis, err := angles.ParseName(key)
		if err != nil {
			return nil, fmt.Errorf("failed to apply limits: %w", err)
		}
		l := cfg.Limits[key]
		if err := res.SetLowerLimit(axis, l.Lower); err != nil {
			return nil, fmt.Errorf("failed to apply limits: %w", err)
		}
		if err := res.SetUpperLimit(axis, l.Upper); err != nil {
			return nil, fmt.Errorf("failed to apply limits: %w", err)
		}
	}

	if len(cfg.Transforms) > 0 {
		ts := make([]sector.Transform, 0, len(cfg.Transforms))
		for _, name := range cfg.Transforms {
			t, err := sector.ParseTransform(name)
			if err != nil {
				return nil, err
			}
			ts = append(ts, t)
		}
		if err := res.selector.SetTransforms(ts); err != nil {
			return nil, err
		}
	} else if err := res.selector.SetSector(cfg.GetSector()); err != nil {
		return nil, err
	}

	for _, c := range cfg.AutoCandidates() {
		if err := res.selector.AddAutoCandidate(c); err != nil {
			return nil, err
		}
	}

	monitoring.Logf("resolver %s: %s (%s), %s", res.sessionID, cfg.GetName(),
		res.geometry.Name(), res.selector.Status())
	return res, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package sector selects among the eight symmetry-equivalent canonical
// orientations that describe one diffraction condition.
package sector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/banshee-data/diffcalc/internal/angles"
)

// Transform is one of the three involutions generating the sector group.
type Transform string

const (
	A Transform = "a"
	B Transform = "b"
	C Transform = "c"
)

// AllTransforms lists the transforms in their canonical order.
var AllTransforms = []Transform{A, B, C}

// ParseTransform validates a transform name.
func ParseTransform(s string) (Transform, error) {
	t := Transform(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case A, B, C:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown transform %q (want a, b or c)", angles.ErrValidation, s)
}

// NumSectors is the size of the sector group.
const NumSectors = 8

// sectorTable maps each sector to its sorted transform subset.
var sectorTable = [NumSectors][]Transform{
	{},
	{C},
	{B},
	{B, C},
	{A},
	{A, C},
	{A, B},
	{A, B, C},
}

func subsetKey(ts []Transform) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

var sectorByKey = func() map[string]int {
	m := make(map[string]int, NumSectors)
	for n, ts := range sectorTable {
		m[subsetKey(ts)] = n
	}
	return m
}()

func checkSector(n int) error {
	if n < 0 || n >= NumSectors {
		return fmt.Errorf("%w: sector %d out of range 0-%d", angles.ErrValidation, n, NumSectors-1)
	}
	return nil
}

// TransformsOf returns the sorted transform subset of sector n.
func TransformsOf(n int) ([]Transform, error) {
	if err := checkSector(n); err != nil {
		return nil, err
	}
	return append([]Transform{}, sectorTable[n]...), nil
}

// SectorOf returns the sector whose transform subset equals ts in any order.
func SectorOf(ts []Transform) (int, error) {
	sorted := sortTransforms(ts)
	n, ok := sectorByKey[subsetKey(sorted)]
	if !ok {
		return 0, fmt.Errorf("%w: transforms %v do not form a sector", angles.ErrValidation, ts)
	}
	return n, nil
}

func sortTransforms(ts []Transform) []Transform {
	out := append([]Transform{}, ts...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply applies a single transform to o without folding.
func Apply(t Transform, o angles.Orientation) (angles.Orientation, error) {
	switch t {
	case A:
		return angles.Orientation{
			Alpha: -o.Alpha, Delta: -o.Delta, Gamma: -o.Gamma,
			Omega: -o.Omega, Chi: o.Chi + 180, Phi: o.Phi,
		}, nil
	case B:
		return angles.Orientation{
			Alpha: o.Alpha, Delta: o.Delta, Gamma: o.Gamma,
			Omega: 180 - o.Omega, Chi: 180 - o.Chi, Phi: o.Phi + 180,
		}, nil
	case C:
		return angles.Orientation{
			Alpha: o.Alpha, Delta: o.Delta, Gamma: o.Gamma,
			Omega: o.Omega - 180, Chi: -o.Chi, Phi: o.Phi + 180,
		}, nil
	}
	return o, fmt.Errorf("%w: unknown transform %q", angles.ErrValidation, t)
}

// TransformWithoutFold returns o transformed into sector n without folding.
// The closed forms equal applying the sector's transforms in sorted order.
func TransformWithoutFold(n int, o angles.Orientation) (angles.Orientation, error) {
	a, d, g, w, c, p := o.Alpha, o.Delta, o.Gamma, o.Omega, o.Chi, o.Phi
	switch n {
	case 0:
		return o, nil
	case 1: // c
		return angles.Orientation{Alpha: a, Delta: d, Gamma: g, Omega: w - 180, Chi: -c, Phi: p + 180}, nil
	case 2: // b
		return angles.Orientation{Alpha: a, Delta: d, Gamma: g, Omega: 180 - w, Chi: 180 - c, Phi: p + 180}, nil
	case 3: // b, c
		return angles.Orientation{Alpha: a, Delta: d, Gamma: g, Omega: -w, Chi: c - 180, Phi: p + 360}, nil
	case 4: // a
		return angles.Orientation{Alpha: -a, Delta: -d, Gamma: -g, Omega: -w, Chi: c + 180, Phi: p}, nil
	case 5: // a, c
		return angles.Orientation{Alpha: -a, Delta: -d, Gamma: -g, Omega: -w - 180, Chi: -c - 180, Phi: p + 180}, nil
	case 6: // a, b
		return angles.Orientation{Alpha: -a, Delta: -d, Gamma: -g, Omega: w + 180, Chi: -c, Phi: p + 180}, nil
	case 7: // a, b, c
		return angles.Orientation{Alpha: -a, Delta: -d, Gamma: -g, Omega: w, Chi: c, Phi: p + 360}, nil
	}
	return o, checkSector(n)
}

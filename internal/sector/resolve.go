package sector

import (
	"fmt"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/monitoring"
)

// candidate is one statically enumerated alternative of an auto search.
type candidate struct {
	sector   int
	position angles.Orientation
}

// ResolveSymmetry moves o into the current sector and folds it into
// (-180, 180]. When auto candidates are registered and the result fails
// valid, the registered alternatives are tried once; the first passing one
// becomes the current selection. Without auto candidates the folded position
// is returned without consulting valid.
func (s *Selector) ResolveSymmetry(o angles.Orientation, valid Validator) (angles.Orientation, error) {
	current, err := s.fold(s.sector, o)
	if err != nil {
		return o, err
	}
	if len(s.autoSectors) == 0 && len(s.autoTransforms) == 0 {
		return current, nil
	}

	ok, err := valid(current)
	if err != nil {
		return o, err
	}
	if ok {
		return current, nil
	}

	var sectors []int
	if len(s.autoSectors) > 0 {
		sectors = s.AutoSectors()
	} else {
		sectors, err = s.transformCombinations()
		if err != nil {
			return o, err
		}
	}

	var passing []candidate
	for _, n := range sectors {
		pos, err := s.fold(n, o)
		if err != nil {
			return o, err
		}
		ok, err := valid(pos)
		if err != nil {
			return o, err
		}
		if ok {
			passing = append(passing, candidate{sector: n, position: pos})
		}
	}

	if len(passing) == 0 {
		return o, fmt.Errorf("%w: no sector satisfies limits (tried %v from sector %d) for %s",
			angles.ErrUnsatisfiable, sectors, s.sector, o)
	}

	chosen := passing[0]
	if len(passing) > 1 {
		others := make([]int, 0, len(passing)-1)
		for _, c := range passing[1:] {
			others = append(others, c.sector)
		}
		monitoring.Reportf(s.reporter, monitoring.DiagMultipleCandidates,
			"sectors %v also satisfy limits; keeping sector %d", others, chosen.sector)
	}
	previous := s.sector
	if err := s.SetSector(chosen.sector); err != nil {
		return o, err
	}
	monitoring.Reportf(s.reporter, monitoring.DiagSectorChanged,
		"sector changed from %d to %d (transforms %v)", previous, s.sector, s.transforms)
	return chosen.position, nil
}

func (s *Selector) fold(n int, o angles.Orientation) (angles.Orientation, error) {
	pos, err := TransformWithoutFold(n, o)
	if err != nil {
		return o, err
	}
	return angles.FoldSymmetric(pos), nil
}

// transformCombinations expands the current subset by switching every auto
// transform off or on. Bit i of the mask enables the i-th registered auto
// transform; the non-auto part of the current subset is kept.
func (s *Selector) transformCombinations() ([]int, error) {
	fixed := make([]Transform, 0, len(s.transforms))
	for _, t := range s.transforms {
		if !containsTransform(s.autoTransforms, t) {
			fixed = append(fixed, t)
		}
	}

	k := len(s.autoTransforms)
	sectors := make([]int, 0, 1<<k)
	for mask := 0; mask < 1<<k; mask++ {
		ts := append([]Transform{}, fixed...)
		for i, t := range s.autoTransforms {
			if mask&(1<<i) != 0 {
				ts = append(ts, t)
			}
		}
		n, err := SectorOf(ts)
		if err != nil {
			return nil, err
		}
		sectors = append(sectors, n)
	}
	return sectors, nil
}

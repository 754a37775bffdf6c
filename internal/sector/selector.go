package sector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/monitoring"
)

// Validator reports whether a folded canonical orientation is acceptable,
// typically by mapping it to physical angles and checking travel limits.
type Validator func(angles.Orientation) (bool, error)

// Selector holds the current symmetry selection and the optional automatic
// search configuration. It starts at sector 0 and is not safe for concurrent
// use.
type Selector struct {
	sector         int
	transforms     []Transform
	autoSectors    []int
	autoTransforms []Transform
	reporter       monitoring.Reporter
}

// NewSelector returns a Selector in sector 0 with no auto candidates.
func NewSelector(r monitoring.Reporter) *Selector {
	return &Selector{transforms: []Transform{}, reporter: r}
}

// Status is a snapshot of the selector state.
type Status struct {
	Sector         int         `json:"sector"`
	Transforms     []Transform `json:"transforms"`
	AutoSectors    []int       `json:"auto_sectors"`
	AutoTransforms []Transform `json:"auto_transforms"`
}

// Status returns a copy of the current state.
func (s *Selector) Status() Status {
	return Status{
		Sector:         s.sector,
		Transforms:     append([]Transform{}, s.transforms...),
		AutoSectors:    append([]int{}, s.autoSectors...),
		AutoTransforms: append([]Transform{}, s.autoTransforms...),
	}
}

func (st Status) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sector %d transforms %v", st.Sector, st.Transforms)
	switch {
	case len(st.AutoSectors) > 0:
		fmt.Fprintf(&b, ", auto sectors %v", st.AutoSectors)
	case len(st.AutoTransforms) > 0:
		fmt.Fprintf(&b, ", auto transforms %v", st.AutoTransforms)
	default:
		b.WriteString(", no auto search")
	}
	return b.String()
}

// Sector returns the current sector.
func (s *Selector) Sector() int { return s.sector }

// Transforms returns the current sorted transform subset.
func (s *Selector) Transforms() []Transform {
	return append([]Transform{}, s.transforms...)
}

// SetSector selects sector n (0-7).
func (s *Selector) SetSector(n int) error {
	ts, err := TransformsOf(n)
	if err != nil {
		return err
	}
	s.sector = n
	s.transforms = ts
	return nil
}

// SetTransforms selects the sector whose subset matches ts.
func (s *Selector) SetTransforms(ts []Transform) error {
	for _, t := range ts {
		if _, err := ParseTransform(string(t)); err != nil {
			return err
		}
	}
	n, err := SectorOf(ts)
	if err != nil {
		return err
	}
	return s.SetSector(n)
}

func containsTransform(ts []Transform, t Transform) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

func withoutTransform(ts []Transform, t Transform) []Transform {
	out := make([]Transform, 0, len(ts))
	for _, x := range ts {
		if x != t {
			out = append(out, x)
		}
	}
	return out
}

// AddTransform adds t to the current subset. Adding a transform that is
// already selected only raises a diagnostic.
func (s *Selector) AddTransform(t Transform) error {
	if _, err := ParseTransform(string(t)); err != nil {
		return err
	}
	if containsTransform(s.transforms, t) {
		monitoring.Reportf(s.reporter, monitoring.DiagDuplicateTransform,
			"transform %s is already selected (sector %d)", t, s.sector)
		return nil
	}
	return s.SetTransforms(append(s.Transforms(), t))
}

// RemoveTransform removes t from the current subset. Removing a transform
// that is not selected only raises a diagnostic.
func (s *Selector) RemoveTransform(t Transform) error {
	if _, err := ParseTransform(string(t)); err != nil {
		return err
	}
	if !containsTransform(s.transforms, t) {
		monitoring.Reportf(s.reporter, monitoring.DiagMissingTransform,
			"transform %s is not selected (sector %d)", t, s.sector)
		return nil
	}
	return s.SetTransforms(withoutTransform(s.transforms, t))
}

// AutoSectors returns the sectors registered for automatic trial.
func (s *Selector) AutoSectors() []int { return append([]int{}, s.autoSectors...) }

// AutoTransforms returns the transforms registered for automatic trial.
func (s *Selector) AutoTransforms() []Transform {
	return append([]Transform{}, s.autoTransforms...)
}

// AddAutoSector registers sector n for automatic trial, clearing any auto
// transforms.
func (s *Selector) AddAutoSector(n int) error {
	if err := checkSector(n); err != nil {
		return err
	}
	for _, x := range s.autoSectors {
		if x == n {
			monitoring.Reportf(s.reporter, monitoring.DiagDuplicateAutoCandidate,
				"sector %d is already an auto sector", n)
			return nil
		}
	}
	if len(s.autoTransforms) > 0 {
		monitoring.Reportf(s.reporter, monitoring.DiagAutoCleared,
			"clearing auto transforms %v", s.autoTransforms)
		s.autoTransforms = nil
	}
	s.autoSectors = append(s.autoSectors, n)
	return nil
}

// RemoveAutoSector unregisters sector n.
func (s *Selector) RemoveAutoSector(n int) error {
	if err := checkSector(n); err != nil {
		return err
	}
	for i, x := range s.autoSectors {
		if x == n {
			s.autoSectors = append(s.autoSectors[:i:i], s.autoSectors[i+1:]...)
			return nil
		}
	}
	monitoring.Reportf(s.reporter, monitoring.DiagMissingAutoCandidate,
		"sector %d is not an auto sector", n)
	return nil
}

// AddAutoTransform registers t for automatic trial, clearing any auto
// sectors.
func (s *Selector) AddAutoTransform(t Transform) error {
	if _, err := ParseTransform(string(t)); err != nil {
		return err
	}
	if containsTransform(s.autoTransforms, t) {
		monitoring.Reportf(s.reporter, monitoring.DiagDuplicateAutoCandidate,
			"transform %s is already an auto transform", t)
		return nil
	}
	if len(s.autoSectors) > 0 {
		monitoring.Reportf(s.reporter, monitoring.DiagAutoCleared,
			"clearing auto sectors %v", s.autoSectors)
		s.autoSectors = nil
	}
	s.autoTransforms = append(s.autoTransforms, t)
	return nil
}

// RemoveAutoTransform unregisters t.
func (s *Selector) RemoveAutoTransform(t Transform) error {
	if _, err := ParseTransform(string(t)); err != nil {
		return err
	}
	if !containsTransform(s.autoTransforms, t) {
		monitoring.Reportf(s.reporter, monitoring.DiagMissingAutoCandidate,
			"transform %s is not an auto transform", t)
		return nil
	}
	s.autoTransforms = withoutTransform(s.autoTransforms, t)
	return nil
}

// AddAutoCandidate registers a sector ("0"-"7") or a transform ("a"-"c").
func (s *Selector) AddAutoCandidate(candidate string) error {
	if n, err := strconv.Atoi(strings.TrimSpace(candidate)); err == nil {
		return s.AddAutoSector(n)
	}
	t, err := ParseTransform(candidate)
	if err != nil {
		return err
	}
	return s.AddAutoTransform(t)
}

// RemoveAutoCandidate unregisters a sector or transform.
func (s *Selector) RemoveAutoCandidate(candidate string) error {
	if n, err := strconv.Atoi(strings.TrimSpace(candidate)); err == nil {
		return s.RemoveAutoSector(n)
	}
	t, err := ParseTransform(candidate)
	if err != nil {
		return err
	}
	return s.RemoveAutoTransform(t)
}

// ClearAuto drops every auto candidate.
func (s *Selector) ClearAuto() {
	s.autoSectors = nil
	s.autoTransforms = nil
}

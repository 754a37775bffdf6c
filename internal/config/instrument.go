// Package config loads the instrument description used to build a
// resolver session: geometry, cut angles, travel limits and the initial
// symmetry selection.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultConfigPath is the path to the canonical instrument defaults file.
const DefaultConfigPath = "config/instrument.defaults.json"

// DefaultGeometry is used when the config does not name one.
const DefaultGeometry = "sixc"

// LimitConfig holds the optional travel bounds of one axis.
type LimitConfig struct {
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

// InstrumentConfig is the root instrument configuration. Axes missing from
// Cuts keep their default cut; an explicit null disables cutting.
type InstrumentConfig struct {
	Name     *string `json:"name,omitempty"`
	Geometry *string `json:"geometry,omitempty"`

	Cuts   map[string]*float64    `json:"cuts,omitempty"`
	Limits map[string]LimitConfig `json:"limits,omitempty"`

	// Symmetry selection
	Sector         *int     `json:"sector,omitempty"`
	Transforms     []string `json:"transforms,omitempty"`
	AutoSectors    []int    `json:"auto_sectors,omitempty"`
	AutoTransforms []string `json:"auto_transforms,omitempty"`
}

// EmptyInstrumentConfig returns a config with every field unset.
func EmptyInstrumentConfig() *InstrumentConfig {
	return &InstrumentConfig{}
}

// ParseInstrumentConfig decodes and validates a JSON document.
func ParseInstrumentConfig(data []byte) (*InstrumentConfig, error) {
	cfg := EmptyInstrumentConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadInstrumentConfig loads an InstrumentConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadInstrumentConfig(path string) (*InstrumentConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseInstrumentConfig(data)
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *InstrumentConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/x/
	}
	for _, path := range candidates {
		if cfg, err := LoadInstrumentConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that can be checked without building a
// geometry; axis names are checked against the geometry when applied.
func (c *InstrumentConfig) Validate() error {
	if c.Sector != nil && (*c.Sector < 0 || *c.Sector > 7) {
		return fmt.Errorf("sector must be between 0 and 7, got %d", *c.Sector)
	}
	if c.Sector != nil && len(c.Transforms) > 0 {
		return fmt.Errorf("sector and transforms are mutually exclusive")
	}
	for _, t := range append(append([]string{}, c.Transforms...), c.AutoTransforms...) {
		switch strings.ToLower(t) {
		case "a", "b", "c":
		default:
			return fmt.Errorf("unknown transform %q", t)
		}
	}
	for _, n := range c.AutoSectors {
		if n < 0 || n > 7 {
			return fmt.Errorf("auto sector must be between 0 and 7, got %d", n)
		}
	}
	if len(c.AutoSectors) > 0 && len(c.AutoTransforms) > 0 {
		return fmt.Errorf("auto_sectors and auto_transforms are mutually exclusive")
	}
	for axis, l := range c.Limits {
		if l.Lower != nil && l.Upper != nil && *l.Lower > *l.Upper {
			return fmt.Errorf("limits for %s: lower %g above upper %g", axis, *l.Lower, *l.Upper)
		}
	}
	return nil
}

// GetGeometry returns the geometry name or the default.
func (c *InstrumentConfig) GetGeometry() string {
	if c.Geometry == nil || *c.Geometry == "" {
		return DefaultGeometry
	}
	return *c.Geometry
}

// GetName returns the instrument name or the geometry name.
func (c *InstrumentConfig) GetName() string {
	if c.Name == nil || *c.Name == "" {
		return c.GetGeometry()
	}
	return *c.Name
}

// GetSector returns the configured sector or 0.
func (c *InstrumentConfig) GetSector() int {
	if c.Sector == nil {
		return 0
	}
	return *c.Sector
}

// AutoCandidates returns the auto sectors and transforms as the strings
// accepted by the selector.
func (c *InstrumentConfig) AutoCandidates() []string {
	out := make([]string, 0, len(c.AutoSectors)+len(c.AutoTransforms))
	for _, n := range c.AutoSectors {
		out = append(out, strconv.Itoa(n))
	}
	return append(out, c.AutoTransforms...)
}

// Marshal encodes the config as indented JSON.
func (c *InstrumentConfig) Marshal() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmptyInstrumentConfig_Defaults(t *testing.T) {
	cfg := EmptyInstrumentConfig()

	if cfg.GetGeometry() != DefaultGeometry {
		t.Errorf("GetGeometry() = %q, want %q", cfg.GetGeometry(), DefaultGeometry)
	}
	if cfg.GetName() != DefaultGeometry {
		t.Errorf("GetName() = %q, want geometry name", cfg.GetName())
	}
	if cfg.GetSector() != 0 {
		t.Errorf("GetSector() = %d, want 0", cfg.GetSector())
	}
	if len(cfg.AutoCandidates()) != 0 {
		t.Errorf("AutoCandidates() = %v, want empty", cfg.AutoCandidates())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should validate: %v", err)
	}
}

func TestLoadInstrumentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "instrument.json")

	testJSON := `{
  "name": "test-fivec",
  "geometry": "fivec",
  "cuts": {"phi": -180, "omega": null},
  "limits": {"chi": {"lower": -10, "upper": 100}, "delta": {"upper": 150}},
  "transforms": ["c"],
  "auto_transforms": ["a", "b"]
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadInstrumentConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetGeometry() != "fivec" {
		t.Errorf("GetGeometry() = %q, want fivec", cfg.GetGeometry())
	}
	if cfg.GetName() != "test-fivec" {
		t.Errorf("GetName() = %q, want test-fivec", cfg.GetName())
	}
	if c, ok := cfg.Cuts["phi"]; !ok || c == nil || *c != -180 {
		t.Errorf("phi cut = %v, want -180", c)
	}
	if c, ok := cfg.Cuts["omega"]; !ok || c != nil {
		t.Errorf("omega cut should be present and null, got %v (present=%v)", c, ok)
	}
	if l := cfg.Limits["delta"]; l.Lower != nil || l.Upper == nil || *l.Upper != 150 {
		t.Errorf("delta limits = %+v", l)
	}
	if got := strings.Join(cfg.AutoCandidates(), ","); got != "a,b" {
		t.Errorf("AutoCandidates() = %q, want a,b", got)
	}
}

func TestLoadInstrumentConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadInstrumentConfig(filepath.Join(tmpDir, "config.yaml")); err == nil {
		t.Error("expected error for non-json extension")
	}
	if _, err := LoadInstrumentConfig(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInstrumentConfig(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"sector too large", `{"sector": 8}`, "sector must be between"},
		{"negative sector", `{"sector": -1}`, "sector must be between"},
		{"sector and transforms", `{"sector": 1, "transforms": ["c"]}`, "mutually exclusive"},
		{"bad transform", `{"transforms": ["d"]}`, "unknown transform"},
		{"bad auto transform", `{"auto_transforms": ["x"]}`, "unknown transform"},
		{"bad auto sector", `{"auto_sectors": [9]}`, "auto sector must be between"},
		{"both auto families", `{"auto_sectors": [1], "auto_transforms": ["a"]}`, "mutually exclusive"},
		{"inverted limits", `{"limits": {"chi": {"lower": 10, "upper": -10}}}`, "lower 10 above upper -10"},
		{"valid", `{"sector": 3, "auto_sectors": [1, 2]}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInstrumentConfig([]byte(tt.json))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetGeometry() != "sixc" {
		t.Errorf("default geometry = %q, want sixc", cfg.GetGeometry())
	}
	if len(cfg.AutoSectors) == 0 {
		t.Error("default config should register auto sectors")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := ParseInstrumentConfig([]byte(`{"geometry": "fourc", "sector": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseInstrumentConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if again.GetGeometry() != "fourc" || again.GetSector() != 2 {
		t.Errorf("round trip lost fields: %s", data)
	}
}

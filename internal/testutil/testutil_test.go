package testutil

import (
	"io"
	"net/http"
	"testing"
)

func TestAnglesNear(t *testing.T) {
	tests := []struct {
		name      string
		got, want []float64
		tol       float64
		expected  bool
	}{
		{"equal", []float64{1, 2}, []float64{1, 2}, 0, true},
		{"within tolerance", []float64{1, 2 + 1e-10}, []float64{1, 2}, AngleTolerance, true},
		{"outside tolerance", []float64{1, 2.1}, []float64{1, 2}, 0.01, false},
		{"length mismatch", []float64{1}, []float64{1, 2}, 1, false},
		{"both empty", nil, []float64{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnglesNear(tt.got, tt.want, tt.tol); got != tt.expected {
				t.Errorf("AnglesNear(%v, %v, %g) = %v, want %v", tt.got, tt.want, tt.tol, got, tt.expected)
			}
		})
	}
}

func TestHelpersPass(t *testing.T) {
	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertNoError(t, nil)
	AssertAnglesNear(t, []float64{0, 60}, []float64{0, 60}, AngleTolerance)

	if p := FloatPtr(-180); *p != -180 {
		t.Errorf("FloatPtr(-180) = %v", *p)
	}
}

func TestNewJSONRequest(t *testing.T) {
	req := NewJSONRequest(http.MethodPost, "/api/resolve", `{"orientation": {}}`)
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	body, _ := io.ReadAll(req.Body)
	if string(body) != `{"orientation": {}}` {
		t.Errorf("body = %q", body)
	}

	if req := NewJSONRequest(http.MethodGet, "/api/status", ""); req.Header.Get("Content-Type") != "" {
		t.Error("empty body should not set Content-Type")
	}
}

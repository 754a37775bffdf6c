package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"sector": 2})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"sector":2}` {
		t.Errorf("body = %q", got)
	}
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, http.StatusUnprocessableEntity, "no sector satisfies limits")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"no sector satisfies limits"}` {
		t.Errorf("body = %q", got)
	}
}

func TestRequireMethod(t *testing.T) {
	w := httptest.NewRecorder()
	if !RequireMethod(w, httptest.NewRequest(http.MethodPost, "/", nil), http.MethodPost) {
		t.Error("matching method should pass")
	}

	w = httptest.NewRecorder()
	if RequireMethod(w, httptest.NewRequest(http.MethodGet, "/", nil), http.MethodPost) {
		t.Error("mismatched method should fail")
	}
	if w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != http.MethodPost {
		t.Errorf("status = %d, Allow = %q", w.Code, w.Header().Get("Allow"))
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"sector": 3}`, false},
		{"unknown field", `{"sector": 3, "extra": true}`, true},
		{"malformed", `{"sector": `, true},
		{"too large", `{"sector": 3, "pad": "` + strings.Repeat("x", MaxJSONBody) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Sector int `json:"sector"`
			}
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := DecodeJSON(httptest.NewRecorder(), r, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Sector != 3 {
				t.Errorf("sector = %d, want 3", v.Sector)
			}
		})
	}
}

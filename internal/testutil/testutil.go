// Package testutil provides shared test helpers for angle comparisons and
// HTTP handler tests.
package testutil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// AngleTolerance is the default tolerance for comparing angles in degrees.
const AngleTolerance = 1e-9

// FloatPtr returns a pointer to f, for optional cut and limit values.
func FloatPtr(f float64) *float64 { return &f }

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AnglesNear reports whether got and want have the same length and agree
// element-wise within tol.
func AnglesNear(got, want []float64, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}

// AssertAnglesNear fails the test unless AnglesNear(got, want, tol).
func AssertAnglesNear(t testing.TB, got, want []float64, tol float64) {
	t.Helper()
	if !AnglesNear(got, want, tol) {
		t.Errorf("angles = %v, want %v (tolerance %g)", got, want, tol)
	}
}

// NewJSONRequest creates a test HTTP request with a JSON body; an empty body
// sends no body.
func NewJSONRequest(method, path, body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(method, path, nil)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

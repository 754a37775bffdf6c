package monitoring

import "fmt"

// DiagnosticKind classifies a non-fatal event raised by the core.
type DiagnosticKind string

const (
	DiagDuplicateTransform     DiagnosticKind = "duplicate_transform"
	DiagMissingTransform       DiagnosticKind = "missing_transform"
	DiagDuplicateAutoCandidate DiagnosticKind = "duplicate_auto_candidate"
	DiagMissingAutoCandidate   DiagnosticKind = "missing_auto_candidate"
	// DiagAutoCleared is raised when registering one auto family drops the other.
	DiagAutoCleared        DiagnosticKind = "auto_cleared"
	DiagSectorChanged      DiagnosticKind = "sector_changed"
	DiagMultipleCandidates DiagnosticKind = "multiple_candidates"
	DiagNonDefaultRoot     DiagnosticKind = "non_default_root"
	DiagLimitFlip          DiagnosticKind = "limit_flip"
)

// Diagnostic is a warning that never aborts the operation that raised it.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// LogReporter forwards every diagnostic to Logf.
var LogReporter Reporter = ReporterFunc(func(d Diagnostic) {
	Logf("diagnostic %s", d)
})

// Reportf formats and delivers a diagnostic. A nil reporter falls back to
// LogReporter.
func Reportf(r Reporter, kind DiagnosticKind, format string, v ...interface{}) {
	if r == nil {
		r = LogReporter
	}
	r.Report(Diagnostic{Kind: kind, Message: fmt.Sprintf(format, v...)})
}

// Recorder collects diagnostics in memory. It is not safe for concurrent use.
type Recorder struct {
	Diagnostics []Diagnostic
	// Next, when set, also receives every diagnostic.
	Next Reporter
}

func (r *Recorder) Report(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	if r.Next != nil {
		r.Next.Report(d)
	}
}

// Has reports whether a diagnostic of the given kind was recorded.
func (r *Recorder) Has(kind DiagnosticKind) bool {
	return r.Count(kind) > 0
}

// Count returns how many diagnostics of the given kind were recorded.
func (r *Recorder) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.Diagnostics = nil
}

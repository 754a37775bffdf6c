package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/db"
	"github.com/banshee-data/diffcalc/internal/httputil"
	"github.com/banshee-data/diffcalc/internal/monitoring"
	"github.com/banshee-data/diffcalc/internal/resolver"
	"github.com/banshee-data/diffcalc/internal/sector"
)

// StateResponse is returned by every endpoint that changes or reports the
// session state.
type StateResponse struct {
	Profile     string                  `json:"profile"`
	Status      resolver.Status         `json:"status"`
	Diagnostics []monitoring.Diagnostic `json:"diagnostics"`
}

// ResolveResponse carries physical angles with their axis names.
type ResolveResponse struct {
	Angles angles.PhysicalAngles `json:"angles"`
	Names  []angles.Name         `json:"names"`
	StateResponse
}

// CanonicalResponse carries the canonical orientation of physical angles.
type CanonicalResponse struct {
	Orientation angles.Orientation      `json:"orientation"`
	Diagnostics []monitoring.Diagnostic `json:"diagnostics"`
}

// begin locks the session and clears diagnostics left by earlier requests.
func (s *Server) begin() func() {
	s.mu.Lock()
	s.recorder.Reset()
	return s.mu.Unlock
}

// diagnostics returns the diagnostics raised since begin.
func (s *Server) diagnostics() []monitoring.Diagnostic {
	return append([]monitoring.Diagnostic{}, s.recorder.Diagnostics...)
}

func (s *Server) state() StateResponse {
	return StateResponse{
		Profile:     s.profile,
		Status:      s.resolver.Status(),
		Diagnostics: s.diagnostics(),
	}
}

// record appends a conversion to the resolve log when a database is
// attached. Failures are logged and never fail the request.
func (s *Server) record(dir db.Direction, input, output interface{}, err error) {
	if s.db == nil {
		return
	}
	_, recErr := s.db.RecordResolve(s.resolver.SessionID(), s.resolver.Geometry().Name(),
		dir, s.resolver.Selector().Sector(), input, output, err)
	if recErr != nil {
		monitoring.Logf("failed to record resolve: %v", recErr)
	}
}

func (s *Server) showStatus(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet) {
		return
	}
	defer s.begin()()
	httputil.WriteJSON(w, http.StatusOK, s.state())
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Orientation angles.Orientation `json:"orientation"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	defer s.begin()()
	p, err := s.resolver.Resolve(req.Orientation)
	if err != nil {
		s.record(db.ToPhysical, req.Orientation, nil, err)
		s.writeError(w, err)
		return
	}
	s.record(db.ToPhysical, req.Orientation, p, nil)
	httputil.WriteJSON(w, http.StatusOK, ResolveResponse{
		Angles:        p,
		Names:         s.resolver.Geometry().PhysicalNames(),
		StateResponse: s.state(),
	})
}

func (s *Server) toCanonical(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Angles angles.PhysicalAngles `json:"angles"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	defer s.begin()()
	o, err := s.resolver.ToCanonical(req.Angles)
	if err != nil {
		s.record(db.ToCanonical, req.Angles, nil, err)
		s.writeError(w, err)
		return
	}
	s.record(db.ToCanonical, req.Angles, o, nil)
	httputil.WriteJSON(w, http.StatusOK, CanonicalResponse{Orientation: o, Diagnostics: s.diagnostics()})
}

func (s *Server) withinLimits(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Angles angles.PhysicalAngles `json:"angles"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	defer s.begin()()
	if want := len(s.resolver.Hardware().Names()); len(req.Angles) != want {
		s.writeError(w, fmt.Errorf("%w: expected %d angles, got %d", angles.ErrValidation, want, len(req.Angles)))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"within_limits": s.resolver.IsWithinLimits(req.Angles)})
}

func (s *Server) setSector(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Sector *int `json:"sector"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Sector == nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, "sector is required")
		return
	}

	defer s.begin()()
	if err := s.resolver.Selector().SetSector(*req.Sector); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.state())
}

func parseTransforms(names []string) ([]sector.Transform, error) {
	ts := make([]sector.Transform, 0, len(names))
	for _, n := range names {
		t, err := sector.ParseTransform(n)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

func (s *Server) updateTransforms(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Action     string   `json:"action"`
		Transforms []string `json:"transforms"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	ts, err := parseTransforms(req.Transforms)
	if err != nil {
		s.writeError(w, err)
		return
	}

	defer s.begin()()
	sel := s.resolver.Selector()
	switch req.Action {
	case "set":
		err = sel.SetTransforms(ts)
	case "add":
		for _, t := range ts {
			if err = sel.AddTransform(t); err != nil {
				break
			}
		}
	case "remove":
		for _, t := range ts {
			if err = sel.RemoveTransform(t); err != nil {
				break
			}
		}
	default:
		err = fmt.Errorf("%w: unknown action %q (want set, add or remove)", angles.ErrValidation, req.Action)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.state())
}

func (s *Server) updateAuto(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Action    string `json:"action"`
		Candidate string `json:"candidate"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	defer s.begin()()
	sel := s.resolver.Selector()
	var err error
	switch req.Action {
	case "add":
		err = sel.AddAutoCandidate(req.Candidate)
	case "remove":
		err = sel.RemoveAutoCandidate(req.Candidate)
	case "clear":
		sel.ClearAuto()
	default:
		err = fmt.Errorf("%w: unknown action %q (want add, remove or clear)", angles.ErrValidation, req.Action)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.state())
}

func (s *Server) updateHardware(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Axis  string   `json:"axis"`
		Field string   `json:"field"`
		Value *float64 `json:"value"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	axis, err := angles.ParseName(req.Axis)
	if err != nil {
		s.writeError(w, err)
		return
	}

	defer s.begin()()
	switch req.Field {
	case "cut":
		err = s.resolver.SetCut(axis, req.Value)
	case "lower":
		err = s.resolver.SetLowerLimit(axis, req.Value)
	case "upper":
		err = s.resolver.SetUpperLimit(axis, req.Value)
	default:
		err = fmt.Errorf("%w: unknown field %q (want cut, lower or upper)", angles.ErrValidation, req.Field)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.state())
}

func (s *Server) listResolves(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet) {
		return
	}
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "no database attached")
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			httputil.WriteJSONError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}
	session := r.URL.Query().Get("session")
	if session == "current" {
		session = s.Resolver().SessionID()
	}

	records, err := s.db.RecentResolves(session, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}

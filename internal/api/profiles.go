package api

import (
	"io"
	"net/http"

	"github.com/banshee-data/diffcalc/internal/config"
	"github.com/banshee-data/diffcalc/internal/httputil"
	"github.com/banshee-data/diffcalc/internal/monitoring"
)

// handleProfiles lists (GET), stores (POST) or deletes (DELETE ?name=)
// instrument profiles.
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "no database attached")
		return
	}
	switch r.Method {
	case http.MethodGet:
		profiles, err := s.db.ListProfiles()
		if err != nil {
			s.writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, profiles)
	case http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			httputil.WriteJSONError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
			return
		}
		cfg, err := config.ParseInstrumentConfig(body)
		if err != nil {
			httputil.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := s.db.SaveProfile(cfg)
		if err != nil {
			s.writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, p)
	case http.MethodDelete:
		name := r.URL.Query().Get("name")
		if name == "" {
			httputil.WriteJSONError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := s.db.DeleteProfile(name); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// activateProfile replaces the current session with one built from the
// named stored profile.
func (s *Server) activateProfile(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "no database attached")
		return
	}
	name := r.URL.Query().Get("name")
	p, err := s.db.GetProfile(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	defer s.begin()()
	previous := s.resolver.SessionID()
	if err := s.activate(p.Config); err != nil {
		s.writeError(w, err)
		return
	}
	monitoring.Logf("session %s replaced by %s (profile %s)", previous, s.resolver.SessionID(), name)
	httputil.WriteJSON(w, http.StatusOK, s.state())
}

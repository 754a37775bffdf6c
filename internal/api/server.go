// Package api exposes a resolver session over HTTP as JSON endpoints, with
// an optional SQLite store for profiles and the resolve log.
package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/config"
	"github.com/banshee-data/diffcalc/internal/db"
	"github.com/banshee-data/diffcalc/internal/httputil"
	"github.com/banshee-data/diffcalc/internal/monitoring"
	"github.com/banshee-data/diffcalc/internal/resolver"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server serialises access to one resolver session. db may be nil, in which
// case the profile and resolve log endpoints answer 503.
type Server struct {
	mu       sync.Mutex
	resolver *resolver.Resolver
	profile  string
	recorder *monitoring.Recorder
	db       *db.DB
}

// NewServer builds a resolver from cfg. Diagnostics raised while handling a
// request are returned with its response and also logged.
func NewServer(cfg *config.InstrumentConfig, database *db.DB) (*Server, error) {
	s := &Server{
		recorder: &monitoring.Recorder{Next: monitoring.LogReporter},
		db:       database,
	}
	if err := s.activate(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// activate replaces the resolver session. Callers other than NewServer must
// hold s.mu.
func (s *Server) activate(cfg *config.InstrumentConfig) error {
	r, err := resolver.FromConfig(cfg, s.recorder)
	if err != nil {
		return err
	}
	s.resolver = r
	s.profile = cfg.GetName()
	return nil
}

// Resolver returns the current session. It is replaced when a profile is
// activated.
func (s *Server) Resolver() *resolver.Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.showStatus)
	mux.HandleFunc("/api/resolve", s.resolve)
	mux.HandleFunc("/api/canonical", s.toCanonical)
	mux.HandleFunc("/api/within_limits", s.withinLimits)
	mux.HandleFunc("/api/sector", s.setSector)
	mux.HandleFunc("/api/transforms", s.updateTransforms)
	mux.HandleFunc("/api/auto", s.updateAuto)
	mux.HandleFunc("/api/hardware", s.updateHardware)
	mux.HandleFunc("/api/resolves", s.listResolves)
	mux.HandleFunc("/api/profiles", s.handleProfiles)
	mux.HandleFunc("/api/profiles/activate", s.activateProfile)
	mux.HandleFunc("/debug/sectors", s.showSectorChart)
	return mux
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, angles.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, angles.ErrUnsatisfiable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	httputil.WriteJSONError(w, errorStatus(err), err.Error())
}

// decodeBody decodes a JSON request body into v, answering 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := httputil.DecodeJSON(w, r, v); err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// Package api exposes the scanner over HTTP: starting scans, polling their
// progress, and managing the monitored-device list and locations. Scans run
// on the scanner's own goroutine and are observed through their session, so
// no request handler ever blocks on probing.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/espressojuice/cloudmonitor/pkg/gatus"
	"github.com/espressojuice/cloudmonitor/pkg/scan"
	"github.com/espressojuice/cloudmonitor/pkg/store"
)

// Server wires the scan engine, the persistent store and the monitoring
// config generator behind the HTTP API.
type Server struct {
	scanner   *scan.Scanner
	store     *store.Store
	gatusPath string
	location  string
	startedAt time.Time
}

// NewServer creates the API server. location is the fallback grouping for
// devices without one of their own.
func NewServer(scanner *scan.Scanner, st *store.Store, gatusPath, location string) *Server {
	return &Server{
		scanner:   scanner,
		store:     st,
		gatusPath: gatusPath,
		location:  location,
		startedAt: time.Now().UTC(),
	}
}

// Handler returns the routed HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/subnets", s.handleSubnets)
	mux.HandleFunc("POST /api/scan", s.handleStartScan)
	mux.HandleFunc("GET /api/scan/status", s.handleScanStatus)
	mux.HandleFunc("GET /api/monitored", s.handleGetMonitored)
	mux.HandleFunc("POST /api/monitored", s.handleAddMonitored)
	mux.HandleFunc("DELETE /api/monitored", s.handleRemoveMonitored)
	mux.HandleFunc("GET /api/locations", s.handleGetLocations)
	mux.HandleFunc("POST /api/locations", s.handleAddLocation)
	mux.HandleFunc("DELETE /api/locations/{name}", s.handleRemoveLocation)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return mux
}

func (s *Server) handleSubnets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"subnets": scan.DetectLocalSubnets()})
}

func (s *Server) handleGetLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"locations": s.store.Locations()})
}

func (s *Server) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.AddLocation(req.Name); err != nil {
		switch {
		case errors.Is(err, store.ErrLocationExists):
			writeError(w, http.StatusConflict, "location already exists")
		case req.Name == "":
			writeError(w, http.StatusBadRequest, "location name is required")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "locations": s.store.Locations()})
}

func (s *Server) handleRemoveLocation(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.store.RemoveLocation(name); err != nil {
		if errors.Is(err, store.ErrLocationNotFound) {
			writeError(w, http.StatusNotFound, "location not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "locations": s.store.Locations()})
}

// regenerateGatusConfig rewrites the monitoring config after any change to
// the monitored set. Failures are logged, not surfaced: the API mutation
// itself already persisted.
func (s *Server) regenerateGatusConfig() {
	cfg := gatus.Generate(s.store.Devices(), s.location)
	if err := gatus.Write(s.gatusPath, cfg); err != nil {
		gologger.Warning().Msgf("could not write gatus config: %s", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		gologger.Warning().Msgf("could not encode response: %s", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

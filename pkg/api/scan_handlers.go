package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/projectdiscovery/gologger"

	"github.com/espressojuice/cloudmonitor/pkg/scan"
)

// scanResultDevice is a discovered device annotated with whether it is
// already in the monitored set.
type scanResultDevice struct {
	scan.Device
	Monitored bool `json:"monitored"`
}

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subnets []string `json:"subnets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subnets := req.Subnets
	if len(subnets) == 0 {
		subnets = scan.DetectLocalSubnets()
	}

	// The scan outlives the request, so it cannot inherit the request
	// context.
	session, err := s.scanner.Start(context.Background(), subnets)
	if err != nil {
		switch {
		case errors.Is(err, scan.ErrScanInProgress):
			writeError(w, http.StatusConflict, "scan already in progress")
		case errors.Is(err, scan.ErrInvalidCIDR):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	gologger.Info().Msgf("scan %s started for %v", session.ID, subnets)
	writeJSON(w, http.StatusOK, map[string]any{"status": "started", "subnets": subnets})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	session := s.scanner.Active()
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"in_progress": false,
			"results":     []scanResultDevice{},
			"count":       0,
		})
		return
	}

	devices := session.Results()
	results := make([]scanResultDevice, 0, len(devices))
	for _, device := range devices {
		results = append(results, scanResultDevice{
			Device:    device,
			Monitored: s.store.IsMonitored(device.IP),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"in_progress": !session.Finished(),
		"results":     results,
		"count":       len(results),
	})
}

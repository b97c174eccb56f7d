package api

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/espressojuice/cloudmonitor/pkg/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"version": version.GetVersion(),
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	}

	// Host details are informational only; a failure here never makes the
	// agent unhealthy.
	if info, err := host.Info(); err == nil {
		resp["hostname"] = info.Hostname
		resp["platform"] = info.Platform
		resp["os"] = info.OS
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp["memory_used_percent"] = vm.UsedPercent
	}

	writeJSON(w, http.StatusOK, resp)
}

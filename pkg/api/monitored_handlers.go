package api

import (
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/espressojuice/cloudmonitor/pkg/store"
)

func (s *Server) handleGetMonitored(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"devices": s.store.Devices()})
}

func (s *Server) handleAddMonitored(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if !gjson.ValidBytes(body) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	location := gjson.GetBytes(body, "location").String()
	if location == "" {
		location = "default"
	}

	// Device entries arrive as free-form objects straight from scan
	// results; pick out the fields the store cares about and ignore the
	// rest.
	var devices []store.MonitoredDevice
	gjson.GetBytes(body, "devices").ForEach(func(_, value gjson.Result) bool {
		device := store.MonitoredDevice{
			IP:           value.Get("ip").String(),
			Name:         value.Get("name").String(),
			MAC:          value.Get("mac").String(),
			Manufacturer: value.Get("manufacturer").String(),
			DeviceType:   value.Get("device_type").String(),
		}
		if device.IP != "" {
			devices = append(devices, device)
		}
		return true
	})

	count, err := s.store.AddDevices(devices, location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.regenerateGatusConfig()

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "count": count})
}

func (s *Server) handleRemoveMonitored(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	ip := gjson.GetBytes(body, "ip").String()
	if ip == "" {
		writeError(w, http.StatusBadRequest, "ip is required")
		return
	}

	count, err := s.store.RemoveDevice(ip)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.regenerateGatusConfig()

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "count": count})
}

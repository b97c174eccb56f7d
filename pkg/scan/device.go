package scan

import "time"

// DeviceType classifies a discovered host.
type DeviceType string

const (
	DeviceTypeCamera         DeviceType = "camera"
	DeviceTypeInfrastructure DeviceType = "infrastructure"
	DeviceTypeUnknown        DeviceType = "unknown"
)

// PortStatus records the connect-only probe result for the fixed set of
// camera-related TCP ports.
type PortStatus struct {
	RTSP    bool `json:"rtsp"`
	HTTP    bool `json:"http"`
	HTTPS   bool `json:"https"`
	HTTPAlt bool `json:"http_alt"`
}

// Device is one live host discovered during a scan. MAC and Manufacturer are
// empty when the ARP snapshot had no entry for the address or the OUI tables
// had no match.
type Device struct {
	IP           string     `json:"ip"`
	MAC          string     `json:"mac,omitempty"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	DeviceType   DeviceType `json:"device_type"`
	Ports        PortStatus `json:"ports"`
	DiscoveredAt time.Time  `json:"discovered_at"`
}

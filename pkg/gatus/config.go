// Package gatus renders a Gatus monitoring configuration from the
// monitored-device list. Every device gets an ICMP reachability endpoint
// and an RTSP TCP endpoint so the dashboard shows both network and stream
// health.
package gatus

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/espressojuice/cloudmonitor/pkg/store"
)

const (
	checkInterval  = "30s"
	connectedCheck = "[CONNECTED] == true"
)

// Config is the subset of the Gatus configuration file the scanner manages.
type Config struct {
	Web       Web        `yaml:"web"`
	Metrics   bool       `yaml:"metrics"`
	Storage   Storage    `yaml:"storage"`
	Endpoints []Endpoint `yaml:"endpoints"`
}

type Web struct {
	Port int `yaml:"port"`
}

type Storage struct {
	Type string `yaml:"type"`
}

// Endpoint is one Gatus health check.
type Endpoint struct {
	Name       string   `yaml:"name"`
	Group      string   `yaml:"group"`
	URL        string   `yaml:"url"`
	Interval   string   `yaml:"interval"`
	Conditions []string `yaml:"conditions"`
}

// Generate builds the Gatus config for the given monitored devices. Devices
// without a location fall back to fallbackLocation for grouping. An empty
// device list yields a single placeholder endpoint so Gatus still starts
// with a valid config.
func Generate(devices []store.MonitoredDevice, fallbackLocation string) *Config {
	cfg := &Config{
		Web:     Web{Port: 8080},
		Metrics: true,
		Storage: Storage{Type: "memory"},
	}

	for _, device := range devices {
		name := device.Name
		if name == "" {
			name = device.Manufacturer
		}
		if name == "" {
			name = "Camera"
		}
		endpointName := fmt.Sprintf("%s (%s)", name, device.IP)

		location := device.Location
		if location == "" {
			location = fallbackLocation
		}
		group := fmt.Sprintf("%s/cameras", location)

		cfg.Endpoints = append(cfg.Endpoints,
			Endpoint{
				Name:       endpointName,
				Group:      group,
				URL:        fmt.Sprintf("icmp://%s", device.IP),
				Interval:   checkInterval,
				Conditions: []string{connectedCheck},
			},
			Endpoint{
				Name:       endpointName,
				Group:      group,
				URL:        fmt.Sprintf("tcp://%s:554", device.IP),
				Interval:   checkInterval,
				Conditions: []string{connectedCheck},
			},
		)
	}

	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = append(cfg.Endpoints, Endpoint{
			Name:       "No devices monitored",
			Group:      fmt.Sprintf("%s/status", fallbackLocation),
			URL:        "icmp://127.0.0.1",
			Interval:   "60s",
			Conditions: []string{connectedCheck},
		})
	}

	return cfg
}

// Write marshals cfg to YAML and writes it to path, creating parent
// directories as needed.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal gatus config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

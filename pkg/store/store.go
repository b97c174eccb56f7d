// Package store persists the monitored-device list and the set of
// locations as JSON files, mirroring what the monitoring config generator
// consumes.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	// ErrLocationExists is returned when adding a location that is already
	// registered.
	ErrLocationExists = errors.New("location already exists")
	// ErrLocationNotFound is returned when removing an unknown location.
	ErrLocationNotFound = errors.New("location not found")
)

// MonitoredDevice is a device the operator selected for monitoring. The
// field set mirrors a discovered device plus the operator-assigned name and
// location.
type MonitoredDevice struct {
	IP           string    `json:"ip"`
	Name         string    `json:"name,omitempty"`
	MAC          string    `json:"mac,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	DeviceType   string    `json:"device_type,omitempty"`
	Location     string    `json:"location,omitempty"`
	AddedAt      time.Time `json:"added_at,omitempty"`
}

// Store holds monitored devices and locations in memory and mirrors every
// mutation to disk. Safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	monitoredFile string
	locationsFile string

	devices   []MonitoredDevice
	locations []string
}

// New creates a store backed by the given file paths. Call Load before use.
func New(monitoredFile, locationsFile string) *Store {
	return &Store{
		monitoredFile: monitoredFile,
		locationsFile: locationsFile,
	}
}

// Load reads both files from disk. Missing files are not errors; the store
// simply starts empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := readJSON(s.monitoredFile, &s.devices); err != nil {
		return fmt.Errorf("failed to load monitored devices: %w", err)
	}
	if err := readJSON(s.locationsFile, &s.locations); err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}
	return nil
}

// AddDevices registers devices for monitoring under location, skipping any
// IP that is already monitored, and returns the total number of monitored
// devices afterwards.
func (s *Store) AddDevices(devices []MonitoredDevice, location string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	monitored := make(map[string]struct{}, len(s.devices))
	for _, d := range s.devices {
		monitored[d.IP] = struct{}{}
	}

	for _, device := range devices {
		if device.IP == "" {
			continue
		}
		if _, exists := monitored[device.IP]; exists {
			continue
		}
		device.Location = location
		device.AddedAt = time.Now().UTC()
		s.devices = append(s.devices, device)
		monitored[device.IP] = struct{}{}
	}

	if err := writeJSON(s.monitoredFile, s.devices); err != nil {
		return len(s.devices), err
	}
	return len(s.devices), nil
}

// RemoveDevice drops the device with the given IP. Removing an IP that is
// not monitored is not an error.
func (s *Store) RemoveDevice(ip string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.devices[:0]
	for _, device := range s.devices {
		if device.IP != ip {
			kept = append(kept, device)
		}
	}
	s.devices = kept

	if err := writeJSON(s.monitoredFile, s.devices); err != nil {
		return len(s.devices), err
	}
	return len(s.devices), nil
}

// Devices returns a snapshot of the monitored devices.
func (s *Store) Devices() []MonitoredDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MonitoredDevice(nil), s.devices...)
}

// IsMonitored reports whether the given IP is in the monitored set.
func (s *Store) IsMonitored(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, device := range s.devices {
		if device.IP == ip {
			return true
		}
	}
	return false
}

// Locations returns a snapshot of the registered locations.
func (s *Store) Locations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locations...)
}

// AddLocation registers a new location name.
func (s *Store) AddLocation(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return errors.New("location name is required")
	}
	for _, existing := range s.locations {
		if existing == name {
			return ErrLocationExists
		}
	}

	s.locations = append(s.locations, name)
	return writeJSON(s.locationsFile, s.locations)
}

// RemoveLocation drops a location name.
func (s *Store) RemoveLocation(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, existing := range s.locations {
		if existing == name {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrLocationNotFound
	}

	s.locations = append(s.locations[:index], s.locations[index+1:]...)
	return writeJSON(s.locationsFile, s.locations)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

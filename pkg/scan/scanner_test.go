package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// newFakeScanner returns a Scanner whose collaborators answer instantly:
// live lists the addresses that answer pings, open lists addr:port probes
// that succeed, and arp is the snapshot source.
func newFakeScanner(live map[string]bool, open map[string]map[int]bool, arp []ARPEntry) *Scanner {
	return &Scanner{
		Concurrency: DefaultConcurrency,
		PingTimeout: 10 * time.Millisecond,
		PortTimeout: 10 * time.Millisecond,
		Ping: func(ctx context.Context, addr string, timeout time.Duration) bool {
			return live[addr]
		},
		ProbePort: func(ctx context.Context, addr string, port int, timeout time.Duration) bool {
			return open[addr][port]
		},
		ReadARPTable: func() ([]ARPEntry, error) {
			return arp, nil
		},
	}
}

func TestProbeHostDownHost(t *testing.T) {
	// Open ports must not matter when the liveness check fails.
	s := newFakeScanner(
		map[string]bool{},
		map[string]map[int]bool{"192.168.1.10": {portRTSP: true, portHTTP: true}},
		nil,
	)

	arpMap := map[string]string{"192.168.1.10": "A0:CF:5B:11:22:33"}
	if device := s.probeHost(context.Background(), "192.168.1.10", arpMap); device != nil {
		t.Fatalf("probeHost() = %+v, want nil for a down host", device)
	}
}

func TestProbeHostClassification(t *testing.T) {
	tests := []struct {
		name             string
		mac              string
		openPorts        map[int]bool
		wantType         DeviceType
		wantManufacturer string
	}{
		{
			name:             "Camera OUI wins regardless of ports",
			mac:              "A0:CF:5B:11:22:33",
			openPorts:        nil,
			wantType:         DeviceTypeCamera,
			wantManufacturer: "Hikvision",
		},
		{
			name:             "Infrastructure OUI not overridden by RTSP",
			mac:              "00:00:0C:44:55:66",
			openPorts:        map[int]bool{portRTSP: true},
			wantType:         DeviceTypeInfrastructure,
			wantManufacturer: "Cisco",
		},
		{
			name:      "No MAC, RTSP open falls back to camera",
			openPorts: map[int]bool{portRTSP: true},
			wantType:  DeviceTypeCamera,
		},
		{
			name:      "No MAC, only HTTP open stays unknown",
			openPorts: map[int]bool{portHTTP: true},
			wantType:  DeviceTypeUnknown,
		},
		{
			name:      "No MAC, HTTPS and alt open stays unknown",
			openPorts: map[int]bool{portHTTPS: true, portHTTPAlt: true},
			wantType:  DeviceTypeUnknown,
		},
		{
			name:     "No MAC, no open ports stays unknown",
			wantType: DeviceTypeUnknown,
		},
		{
			name:      "Unlisted OUI falls back to port heuristics",
			mac:       "DE:AD:BE:EF:00:01",
			openPorts: map[int]bool{portRTSP: true},
			wantType:  DeviceTypeCamera,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const addr = "192.168.1.10"
			s := newFakeScanner(
				map[string]bool{addr: true},
				map[string]map[int]bool{addr: tt.openPorts},
				nil,
			)

			arpMap := map[string]string{}
			if tt.mac != "" {
				arpMap[addr] = tt.mac
			}

			device := s.probeHost(context.Background(), addr, arpMap)
			if device == nil {
				t.Fatal("probeHost() = nil, want a record for a live host")
			}
			if device.DeviceType != tt.wantType {
				t.Errorf("device type = %q, want %q", device.DeviceType, tt.wantType)
			}
			if device.Manufacturer != tt.wantManufacturer {
				t.Errorf("manufacturer = %q, want %q", device.Manufacturer, tt.wantManufacturer)
			}
			if device.MAC != tt.mac {
				t.Errorf("mac = %q, want %q", device.MAC, tt.mac)
			}
			if device.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt not set")
			}
		})
	}
}

func TestRunScanEndToEnd(t *testing.T) {
	s := newFakeScanner(
		map[string]bool{"192.168.1.10": true},
		map[string]map[int]bool{"192.168.1.10": {portRTSP: true}},
		[]ARPEntry{{IP: "192.168.1.10", MAC: "A0:CF:5B:11:22:33"}},
	)

	devices, err := s.RunScan(context.Background(), []string{"192.168.1.0/24"})
	if err != nil {
		t.Fatalf("RunScan() error = %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("RunScan() returned %d devices, want 1", len(devices))
	}

	device := devices[0]
	if device.IP != "192.168.1.10" {
		t.Errorf("ip = %s, want 192.168.1.10", device.IP)
	}
	if device.MAC != "A0:CF:5B:11:22:33" {
		t.Errorf("mac = %s, want A0:CF:5B:11:22:33", device.MAC)
	}
	if device.Manufacturer != "Hikvision" {
		t.Errorf("manufacturer = %s, want Hikvision", device.Manufacturer)
	}
	if device.DeviceType != DeviceTypeCamera {
		t.Errorf("device type = %s, want camera", device.DeviceType)
	}
	want := PortStatus{RTSP: true}
	if device.Ports != want {
		t.Errorf("ports = %+v, want %+v", device.Ports, want)
	}
}

func TestRunScanInvalidSubnet(t *testing.T) {
	s := newFakeScanner(nil, nil, nil)

	_, err := s.RunScan(context.Background(), []string{"192.168.1.0/24", "bogus/99"})
	if !errors.Is(err, ErrInvalidCIDR) {
		t.Fatalf("RunScan() error = %v, want ErrInvalidCIDR", err)
	}
}

func TestRunScanARPFailureDegrades(t *testing.T) {
	s := newFakeScanner(
		map[string]bool{"192.168.1.10": true},
		map[string]map[int]bool{"192.168.1.10": {portRTSP: true}},
		nil,
	)
	s.ReadARPTable = func() ([]ARPEntry, error) {
		return nil, errors.New("arp binary missing")
	}

	devices, err := s.RunScan(context.Background(), []string{"192.168.1.0/24"})
	if err != nil {
		t.Fatalf("RunScan() error = %v, want ARP failure absorbed", err)
	}
	if len(devices) != 1 {
		t.Fatalf("RunScan() returned %d devices, want 1", len(devices))
	}
	if devices[0].MAC != "" {
		t.Errorf("mac = %q, want empty without an ARP snapshot", devices[0].MAC)
	}
	if devices[0].DeviceType != DeviceTypeCamera {
		t.Errorf("device type = %s, want camera from RTSP fallback", devices[0].DeviceType)
	}
}

func TestRunScanConcurrencyCap(t *testing.T) {
	var inFlight, maxInFlight int64

	s := newFakeScanner(nil, nil, nil)
	s.Concurrency = 10
	s.Ping = func(ctx context.Context, addr string, timeout time.Duration) bool {
		current := atomic.AddInt64(&inFlight, 1)
		for {
			max := atomic.LoadInt64(&maxInFlight)
			if current <= max || atomic.CompareAndSwapInt64(&maxInFlight, max, current) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return false
	}

	if _, err := s.RunScan(context.Background(), []string{"10.0.0.0/24"}); err != nil {
		t.Fatalf("RunScan() error = %v", err)
	}

	if got := atomic.LoadInt64(&maxInFlight); got > 10 {
		t.Errorf("observed %d concurrent probes, cap is 10", got)
	}
}

func TestStartRejectsConcurrentSession(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once

	s := newFakeScanner(nil, nil, nil)
	s.Ping = func(ctx context.Context, addr string, timeout time.Duration) bool {
		<-release
		return false
	}

	session, err := s.Start(context.Background(), []string{"192.168.1.0/24"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer once.Do(func() { close(release) })

	if _, err := s.Start(context.Background(), []string{"192.168.1.0/24"}); !errors.Is(err, ErrScanInProgress) {
		t.Fatalf("second Start() error = %v, want ErrScanInProgress", err)
	}

	once.Do(func() { close(release) })
	<-session.Done()

	// A finished session frees the slot.
	next, err := s.Start(context.Background(), []string{"192.168.1.1"})
	if err != nil {
		t.Fatalf("Start() after finish error = %v", err)
	}
	<-next.Done()
}

func TestRunScanCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var probed int64
	s := newFakeScanner(nil, nil, nil)
	s.Concurrency = 2
	s.Ping = func(ctx context.Context, addr string, timeout time.Duration) bool {
		if atomic.AddInt64(&probed, 1) == 1 {
			cancel()
		}
		time.Sleep(time.Millisecond)
		return false
	}

	devices, err := s.RunScan(ctx, []string{"10.0.0.0/24"})
	if err != nil {
		t.Fatalf("RunScan() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("devices = %d, want 0", len(devices))
	}
	if got := atomic.LoadInt64(&probed); got >= 254 {
		t.Errorf("cancellation did not stop probe submission, %d probes ran", got)
	}
}

func TestScanResultAllowsDuplicateSubnets(t *testing.T) {
	s := newFakeScanner(
		map[string]bool{"192.168.1.10": true},
		nil,
		nil,
	)

	devices, err := s.RunScan(context.Background(), []string{"192.168.1.0/24", "192.168.1.0/24"})
	if err != nil {
		t.Fatalf("RunScan() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("RunScan() returned %d devices, want 2 (one per supplied subnet)", len(devices))
	}
}

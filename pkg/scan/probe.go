package scan

import (
	"context"
	"net"
	"os/exec"
	"strconv"
	"time"
)

// Camera-related TCP ports probed on every live host.
const (
	portRTSP    = 554
	portHTTP    = 80
	portHTTPS   = 443
	portHTTPAlt = 8080
)

// pingGracePeriod covers process startup and teardown on top of ping's own
// echo timeout.
const pingGracePeriod = 2 * time.Second

// PingHost reports whether addr answered a single ICMP echo within timeout.
// Uses the system ping binary so no raw-socket privileges are needed.
func PingHost(ctx context.Context, addr string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout+pingGracePeriod)
	defer cancel()

	args := pingArgs(addr, timeout)
	return exec.CommandContext(ctx, args[0], args[1:]...).Run() == nil
}

// ProbeTCPPort reports whether a TCP connect to addr:port succeeded within
// timeout. Connect-only: no bytes are exchanged and the connection is closed
// immediately. Refused, filtered and timed-out connects all read as closed.
func ProbeTCPPort(ctx context.Context, addr string, port int, timeout time.Duration) bool {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// probeHost scans one candidate address: liveness check, MAC resolution from
// the shared ARP snapshot, OUI classification and port probes. Returns nil
// when the host does not answer the liveness check; dead hosts consume no
// further work. Nothing here retries: one failed probe of any kind is final
// for this host until the next scan.
func (s *Scanner) probeHost(ctx context.Context, addr string, arpMap map[string]string) *Device {
	if !s.Ping(ctx, addr, s.PingTimeout) {
		return nil
	}

	mac := arpMap[addr]
	var manufacturer string
	var deviceType DeviceType
	if mac != "" {
		manufacturer, deviceType = Classify(mac)
	}

	ports := PortStatus{
		RTSP:    s.ProbePort(ctx, addr, portRTSP, s.PortTimeout),
		HTTP:    s.ProbePort(ctx, addr, portHTTP, s.PortTimeout),
		HTTPS:   s.ProbePort(ctx, addr, portHTTPS, s.PortTimeout),
		HTTPAlt: s.ProbePort(ctx, addr, portHTTPAlt, s.PortTimeout),
	}

	// Port heuristics apply only when the OUI tables had nothing to say.
	// Open web ports alone never imply infrastructure.
	if deviceType == "" {
		if ports.RTSP {
			deviceType = DeviceTypeCamera
		} else {
			deviceType = DeviceTypeUnknown
		}
	}

	return &Device{
		IP:           addr,
		MAC:          mac,
		Manufacturer: manufacturer,
		DeviceType:   deviceType,
		Ports:        ports,
		DiscoveredAt: time.Now().UTC(),
	}
}

package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/projectdiscovery/gologger"
	syncutil "github.com/projectdiscovery/utils/sync"
)

// DefaultConcurrency caps how many host probes are in flight at once. Each
// probe holds a ping subprocess and up to one TCP connect, so the cap also
// bounds file descriptor and process usage.
const DefaultConcurrency = 50

// ErrScanInProgress is returned by Start when the scanner already has an
// unfinished session.
var ErrScanInProgress = errors.New("scan already in progress")

// Scanner runs discovery passes over IPv4 subnets. The collaborator fields
// default to the real OS-backed implementations and can be swapped for fakes
// in tests. A Scanner allows at most one active session at a time.
type Scanner struct {
	Concurrency int
	PingTimeout time.Duration
	PortTimeout time.Duration

	Ping         func(ctx context.Context, addr string, timeout time.Duration) bool
	ProbePort    func(ctx context.Context, addr string, port int, timeout time.Duration) bool
	ReadARPTable func() ([]ARPEntry, error)

	mu     sync.Mutex
	active *Session
}

// NewScanner returns a Scanner wired to the OS collaborators with default
// timeouts and concurrency.
func NewScanner() *Scanner {
	return &Scanner{
		Concurrency:  DefaultConcurrency,
		PingTimeout:  time.Second,
		PortTimeout:  time.Second,
		Ping:         PingHost,
		ProbePort:    ProbeTCPPort,
		ReadARPTable: ReadARPTable,
	}
}

// RunScan runs one full blocking discovery pass over subnets and returns the
// devices found, in completion order. Only structural failures surface as
// errors: malformed subnet input or a probe pool that cannot be created.
// Callers wanting an overall deadline wrap ctx; cancellation stops new
// probes from being submitted and lets in-flight ones drain.
func (s *Scanner) RunScan(ctx context.Context, subnets []string) ([]Device, error) {
	session, err := s.Start(ctx, subnets)
	if err != nil {
		return nil, err
	}
	<-session.Done()
	return session.Results(), nil
}

// Start begins a discovery pass in the background and hands back its
// session. Subnet expansion and pool creation happen synchronously so bad
// input fails fast; returns ErrScanInProgress while an earlier session is
// still running.
func (s *Scanner) Start(ctx context.Context, subnets []string) (*Session, error) {
	if len(subnets) == 0 {
		return nil, errors.New("no subnets to scan")
	}

	// Addresses from overlapping subnets are kept as-is: a host reachable
	// through two supplied ranges is probed once per range.
	var addrs []string
	for _, subnet := range subnets {
		hosts, err := Expand(subnet)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, hosts...)
	}

	awg, err := syncutil.New(syncutil.WithSize(s.Concurrency))
	if err != nil {
		return nil, fmt.Errorf("failed to create probe pool: %w", err)
	}

	s.mu.Lock()
	if s.active != nil && !s.active.Finished() {
		s.mu.Unlock()
		return nil, ErrScanInProgress
	}
	session := newSession(subnets)
	s.active = session
	s.mu.Unlock()

	go s.run(ctx, session, addrs, awg)

	return session, nil
}

// Active returns the scanner's current session, which may already be
// finished, or nil when no scan has run yet.
func (s *Scanner) Active() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Scanner) run(ctx context.Context, session *Session, addrs []string, awg *syncutil.AdaptiveWaitGroup) {
	defer session.finish()

	// One ARP snapshot per pass, taken before any probing begins. Entries
	// are never refreshed mid-scan; a missing table just means MACs resolve
	// to nothing and classification falls back to port heuristics.
	arpMap := make(map[string]string)
	entries, err := s.ReadARPTable()
	if err != nil {
		gologger.Warning().Msgf("could not read ARP table, continuing without MACs: %s", err)
	}
	for _, entry := range entries {
		arpMap[entry.IP] = entry.MAC
	}

	gologger.Verbose().Msgf("scan %s: probing %d addresses with %d ARP entries", session.ID, len(addrs), len(arpMap))

	for _, addr := range addrs {
		select {
		case <-ctx.Done():
			goto done
		default:
		}

		awg.Add()
		go func(addr string) {
			defer awg.Done()
			if device := s.probeHost(ctx, addr, arpMap); device != nil {
				session.add(*device)
				gologger.Verbose().Msgf("scan %s: found %s %s (%s)", session.ID, device.IP, device.MAC, device.DeviceType)
			}
		}(addr)
	}

done:
	awg.Wait()
}

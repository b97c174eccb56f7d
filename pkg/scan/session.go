package scan

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// Session is one scan in flight. Results accumulate in completion order, not
// address order, and may be read while the scan is still running. Once the
// scan finishes the session is immutable.
type Session struct {
	ID        string
	Subnets   []string
	StartedAt time.Time

	mu       sync.Mutex
	results  []Device
	finished bool
	done     chan struct{}
}

func newSession(subnets []string) *Session {
	return &Session{
		ID:        xid.New().String(),
		Subnets:   append([]string(nil), subnets...),
		StartedAt: time.Now().UTC(),
		done:      make(chan struct{}),
	}
}

func (s *Session) add(device Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, device)
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.finished = true
		close(s.done)
	}
}

// Done is closed when the scan has finished, successfully or not.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Finished reports whether the scan has completed.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Results returns a snapshot of the devices discovered so far.
func (s *Session) Results() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Device(nil), s.results...)
}

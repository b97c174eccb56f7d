package scan

import (
	"errors"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name      string
		cidr      string
		wantCount int
		wantErr   bool
		validate  func(t *testing.T, hosts []string)
	}{
		{
			name:      "Full /24 network",
			cidr:      "192.168.1.0/24",
			wantCount: 254,
			validate: func(t *testing.T, hosts []string) {
				if hosts[0] != "192.168.1.1" {
					t.Errorf("first host = %s, want 192.168.1.1", hosts[0])
				}
				if hosts[len(hosts)-1] != "192.168.1.254" {
					t.Errorf("last host = %s, want 192.168.1.254", hosts[len(hosts)-1])
				}
			},
		},
		{
			name:      "Bare address without prefix",
			cidr:      "203.0.113.7",
			wantCount: 1,
			validate: func(t *testing.T, hosts []string) {
				if hosts[0] != "203.0.113.7" {
					t.Errorf("host = %s, want 203.0.113.7", hosts[0])
				}
			},
		},
		{
			name:      "Wide prefix clamped to /24",
			cidr:      "10.0.0.5/16",
			wantCount: 254,
			validate: func(t *testing.T, hosts []string) {
				// The clamp masks the supplied base address, so only the
				// /24 containing 10.0.0.5 is expanded, not the whole /16.
				if hosts[0] != "10.0.0.1" {
					t.Errorf("first host = %s, want 10.0.0.1", hosts[0])
				}
				if hosts[len(hosts)-1] != "10.0.0.254" {
					t.Errorf("last host = %s, want 10.0.0.254", hosts[len(hosts)-1])
				}
			},
		},
		{
			name:      "Small /30 network",
			cidr:      "192.168.1.0/30",
			wantCount: 2,
		},
		{
			name:      "Single host /32",
			cidr:      "192.168.1.1/32",
			wantCount: 0,
		},
		{
			name:    "Bad prefix",
			cidr:    "192.168.1.0/33",
			wantErr: true,
		},
		{
			name:    "Non-numeric prefix",
			cidr:    "192.168.1.0/abc",
			wantErr: true,
		},
		{
			name:    "Bad address",
			cidr:    "192.168.1.999/24",
			wantErr: true,
		},
		{
			name:    "Not an address at all",
			cidr:    "hostname/24",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hosts, err := Expand(tt.cidr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(hosts) != tt.wantCount {
				t.Errorf("Expand() count = %d, want %d", len(hosts), tt.wantCount)
			}
			if tt.validate != nil {
				tt.validate(t, hosts)
			}
		})
	}
}

func TestExpandClampMatchesSameSlash24(t *testing.T) {
	clamped, err := Expand("10.0.0.5/16")
	if err != nil {
		t.Fatalf("Expand(10.0.0.5/16) error = %v", err)
	}
	direct, err := Expand("10.0.0.0/24")
	if err != nil {
		t.Fatalf("Expand(10.0.0.0/24) error = %v", err)
	}

	if len(clamped) != len(direct) {
		t.Fatalf("clamped count = %d, direct count = %d", len(clamped), len(direct))
	}
	for i := range clamped {
		if clamped[i] != direct[i] {
			t.Fatalf("host %d: clamped %s != direct %s", i, clamped[i], direct[i])
		}
	}
}

func TestExpandErrorIsInvalidCIDR(t *testing.T) {
	_, err := Expand("300.1.1.1/24")
	if !errors.Is(err, ErrInvalidCIDR) {
		t.Fatalf("Expand() error = %v, want ErrInvalidCIDR", err)
	}
}

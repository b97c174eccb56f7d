package scan

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/projectdiscovery/mapcidr"
)

// ErrInvalidCIDR is returned when a subnet cannot be parsed as IPv4 CIDR
// notation or a bare IPv4 address.
var ErrInvalidCIDR = errors.New("invalid CIDR")

// Expand converts a subnet in CIDR notation into the list of host addresses
// it contains, excluding the network and broadcast addresses. An input
// without a prefix is returned as-is so a single host can be targeted
// directly.
//
// Prefixes wider than /24 are clamped to /24 so a single subnet entry never
// expands to more than 254 hosts. The clamp masks the address that was
// supplied: expanding 10.0.0.5/16 yields the /24 containing 10.0.0.5, not
// the whole /16.
func Expand(cidr string) ([]string, error) {
	addrPart, prefixPart, found := strings.Cut(cidr, "/")
	if !found {
		return []string{cidr}, nil
	}

	prefix, err := strconv.Atoi(prefixPart)
	if err != nil || prefix < 0 || prefix > 32 {
		return nil, fmt.Errorf("%w: bad prefix length in %q", ErrInvalidCIDR, cidr)
	}

	base := net.ParseIP(addrPart)
	if base == nil || base.To4() == nil {
		return nil, fmt.Errorf("%w: bad address in %q", ErrInvalidCIDR, cidr)
	}

	if prefix < 24 {
		prefix = 24
	}

	mask := net.CIDRMask(prefix, 32)
	network := &net.IPNet{IP: base.To4().Mask(mask), Mask: mask}

	ips, err := mapcidr.IPAddresses(network.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCIDR, err)
	}

	hosts := make([]string, 0, len(ips))
	for _, ipStr := range ips {
		ip := net.ParseIP(ipStr)
		if ip == nil {
			continue
		}
		if isNetworkOrBroadcast(ip, network) {
			continue
		}
		hosts = append(hosts, ipStr)
	}
	return hosts, nil
}

// isNetworkOrBroadcast checks if an IP is the network or broadcast address
func isNetworkOrBroadcast(ip net.IP, network *net.IPNet) bool {
	if ip.Equal(network.IP) {
		return true
	}

	broadcast := make(net.IP, len(network.IP))
	copy(broadcast, network.IP)
	for i := range broadcast {
		broadcast[i] |= ^network.Mask[i]
	}
	return ip.Equal(broadcast)
}

package scan

import (
	"net"

	sliceutil "github.com/projectdiscovery/utils/slice"
)

// DefaultSubnet is scanned when no subnets are supplied and none can be
// detected from the local interfaces.
const DefaultSubnet = "192.168.1.0/24"

// DetectLocalSubnets returns the /24 ranges covering the machine's private
// IPv4 interface addresses. Best-effort: any failure, or a machine with no
// private IPv4 address, falls back to DefaultSubnet.
func DetectLocalSubnets() []string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return []string{DefaultSubnet}
	}

	var subnets []string
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			ip := ipNet.IP.To4()
			if ip == nil || !ip.IsPrivate() {
				continue
			}

			mask24 := net.CIDRMask(24, 32)
			network24 := &net.IPNet{IP: ip.Mask(mask24), Mask: mask24}
			subnets = append(subnets, network24.String())
		}
	}

	subnets = sliceutil.Dedupe(subnets)
	if len(subnets) == 0 {
		return []string{DefaultSubnet}
	}
	return subnets
}

//go:build !windows

package scan

import osutils "github.com/projectdiscovery/utils/os"

// arpArgs returns the ARP table dump command for Linux and macOS.
func arpArgs() []string {
	if osutils.IsOSX() {
		return []string{"arp", "-an"}
	}
	return []string{"arp", "-n"}
}

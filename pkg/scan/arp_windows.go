//go:build windows

package scan

// arpArgs returns the ARP table dump command for Windows.
func arpArgs() []string {
	return []string{"arp", "-a"}
}

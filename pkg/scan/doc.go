// Package scan discovers live IPv4 hosts on local subnets and classifies
// each as a camera, network-infrastructure device, or unknown.
//
// A pass works in fixed stages:
//   - every requested subnet is expanded to its host addresses (clamped to
//     /24 per entry so one entry never means more than 254 probes)
//   - the OS ARP table is snapshotted once
//   - each address is probed under a bounded worker pool: a single ICMP
//     echo decides liveness, the snapshot resolves the MAC, the OUI tables
//     classify the vendor, and four camera-related TCP ports are checked
//     with connect-only probes
//
// Probes are deliberately best-effort with no retries; a host missed by a
// transient failure is expected to be picked up by the next periodic scan.
package scan

package scan

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ARPEntry is one IP to MAC mapping taken from the OS ARP table.
type ARPEntry struct {
	IP  string
	MAC string
}

const (
	broadcastMAC = "FF:FF:FF:FF:FF:FF"
	arpTimeout   = 10 * time.Second
)

// ReadARPTable dumps the platform ARP table and parses it into IP/MAC pairs.
// The snapshot is best-effort: a missing binary or a timeout surfaces as an
// error the caller can degrade on, and unparseable lines contribute nothing.
func ReadARPTable() ([]ARPEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), arpTimeout)
	defer cancel()

	args := arpArgs()
	output, err := exec.CommandContext(ctx, args[0], args[1:]...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to dump ARP table: %w", err)
	}

	return ParseARPTable(string(output)), nil
}

// ParseARPTable extracts IP/MAC pairs from free-form tabular ARP output.
// A line contributes a pair only when it contains both an IPv4-looking token
// and a MAC-looking token; the layout around them does not matter, which
// keeps the parser working across arp(8) dialects. Hyphen-separated MACs are
// normalized to colons and the broadcast MAC is discarded.
func ParseARPTable(output string) []ARPEntry {
	var entries []ARPEntry

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		var ip, mac string
		for _, field := range fields {
			switch {
			case isIPv4Token(field):
				ip = field
			case isMACToken(field):
				mac = NormalizeMAC(field)
			}
		}

		if ip == "" || mac == "" || mac == broadcastMAC {
			continue
		}
		entries = append(entries, ARPEntry{IP: ip, MAC: mac})
	}

	return entries
}

// isIPv4Token matches four dot-separated all-numeric components.
func isIPv4Token(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

// isMACToken matches six hex pairs separated uniformly by colons or hyphens.
func isMACToken(s string) bool {
	sep := ":"
	if strings.Count(s, "-") == 5 {
		sep = "-"
	} else if strings.Count(s, ":") != 5 {
		return false
	}

	parts := strings.Split(s, sep)
	if len(parts) != 6 {
		return false
	}
	for _, part := range parts {
		if len(part) != 2 {
			return false
		}
		for _, c := range part {
			if !isHexDigit(c) {
				return false
			}
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

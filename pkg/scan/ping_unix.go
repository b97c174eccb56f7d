//go:build !windows

package scan

import (
	"strconv"
	"time"
)

// pingArgs builds a single-echo ping invocation for Linux and macOS.
func pingArgs(addr string, timeout time.Duration) []string {
	seconds := int(timeout.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return []string{"ping", "-c", "1", "-W", strconv.Itoa(seconds), addr}
}

//go:build windows

package scan

import (
	"strconv"
	"time"
)

// pingArgs builds a single-echo ping invocation for Windows.
func pingArgs(addr string, timeout time.Duration) []string {
	millis := int(timeout.Milliseconds())
	if millis < 1000 {
		millis = 1000
	}
	return []string{"ping", "-n", "1", "-w", strconv.Itoa(millis), addr}
}

// Package debug provides opt-in diagnostic logging to stderr,
// enabled with PL_DEBUG=1.
package debug

import (
	"fmt"
	"os"
)

var enabled = os.Getenv("PL_DEBUG") != ""

// Enabled reports whether debug logging is on.
func Enabled() bool {
	return enabled
}

// Logf writes a formatted message to stderr when PL_DEBUG is set.
func Logf(format string, args ...interface{}) {
	if enabled {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

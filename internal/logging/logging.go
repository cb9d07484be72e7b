// Package logging constructs the go-hclog logger shared by satdriver and
// checker.
package logging

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New returns a logger writing to stderr, at Debug level when debug is
// true and Warn level otherwise.
func New(debug bool) hclog.Logger {
	level := hclog.Warn
	if debug {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "aigmc",
		Level:  level,
		Output: os.Stderr,
	})
}

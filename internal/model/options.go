// Package model holds option types shared between the CLI and the pipeline.
package model

import "time"

// RunOptions holds user-configurable runtime options as resolved from flags,
// environment and config file.
type RunOptions struct {
	Cores   int
	Verbose int  // number of -v flags
	Stderr  bool // log lines go to stderr; progress stays on stdout
	Engine  string

	Delay time.Duration // simulated search time per position when no engine is used
	NPS   uint64        // simulated nodes per second
	NoUI  bool          // disable the TUI when true
}

// Simulate reports whether positions should be analysed without an engine.
func (o RunOptions) Simulate() bool {
	return o.Engine == "" && o.Delay > 0
}

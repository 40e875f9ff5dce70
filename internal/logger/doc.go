// Package logger writes the client's human-readable status output.
//
// Lines are prefixed by level and go to stdout, or to stderr when the logger
// is configured that way:
//
//	D: debug line
//	plain info line
//	><> message from the fishnet protocol layer
//	W: warning
//	E: error
//
// A headline is a blank line, "### <title>" and another blank line.
//
// Progress reports compose a queue gauge and a locator for the latest
// position, and always go to stdout:
//
//	[=====               |] 20 cores / 5 queued, latest: https://lichess.org/abc#42
//
// A *Logger may be cloned and shared freely between goroutines. Clones share
// one lock-guarded state block; the lock is never held while writing.
package logger

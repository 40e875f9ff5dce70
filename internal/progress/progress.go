// Package progress defines how queue and worker activity is observed.
package progress

import "fishnet/internal/logger"

// Reporter is implemented by the logger, the TUI, or any observer of queue
// activity. *logger.Logger satisfies it directly.
type Reporter interface {
	Progress(queue logger.QueueStatusBar, at logger.ProgressAt)
	Debug(line string)
	FishnetInfo(line string)
	Warn(line string)
	Error(line string)
}

// Log is a single leveled line, used by reporters that forward lines
// elsewhere instead of printing them.
type Log struct {
	Level logger.Level
	Line  string
}

// Snapshot is a progress report captured as data.
type Snapshot struct {
	Queue logger.QueueStatusBar
	At    logger.ProgressAt
}

// Line renders the snapshot the way the logger prints it.
func (s Snapshot) Line() string {
	return s.Queue.String() + ", latest: " + s.At.String()
}

var _ Reporter = (*logger.Logger)(nil)

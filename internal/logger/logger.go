package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"fishnet/internal/config"
)

// Level identifies which method produced a line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelFishnet
	LevelWarn
	LevelError
	LevelHeadline
	LevelProgress

	levelCount
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelFishnet:
		return "fishnet"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelHeadline:
		return "headline"
	case LevelProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// Logger writes leveled lines. See the package documentation for the format.
type Logger struct {
	verbose config.Verbose
	stderr  bool

	stdout io.Writer
	errw   io.Writer

	state *state
}

// state is shared by every clone of a Logger.
type state struct {
	mu    sync.Mutex
	lines [levelCount]uint64
}

// New returns a logger writing to the process stdout, or stderr when stderr
// is true. Progress reports always go to stdout.
func New(verbose config.Verbose, stderr bool) *Logger {
	return NewWithWriters(verbose, stderr, os.Stdout, os.Stderr)
}

// NewWithWriters is New with explicit output channels.
func NewWithWriters(verbose config.Verbose, stderr bool, stdout, errw io.Writer) *Logger {
	return &Logger{
		verbose: verbose,
		stderr:  stderr,
		stdout:  stdout,
		errw:    errw,
		state:   &state{},
	}
}

// Clone returns a handle that shares this logger's state.
func (l *Logger) Clone() *Logger {
	c := *l
	return &c
}

// Verbose returns the configured verbosity. It does not affect output.
func (l *Logger) Verbose() config.Verbose {
	return l.verbose
}

// Headline writes "### <title>" between blank lines.
func (l *Logger) Headline(title string) {
	l.record(LevelHeadline)
	l.println("")
	l.println("### " + title)
	l.println("")
}

// Debug writes "D: <line>".
func (l *Logger) Debug(line string) {
	l.record(LevelDebug)
	l.println("D: " + line)
}

// Progress writes "<queue>, latest: <at>". It ignores the stderr setting.
func (l *Logger) Progress(queue QueueStatusBar, at ProgressAt) {
	l.record(LevelProgress)
	_, _ = fmt.Fprintf(l.stdout, "%s, latest: %s\n", queue, at)
}

// Info writes line without a prefix.
func (l *Logger) Info(line string) {
	l.record(LevelInfo)
	l.println(line)
}

// FishnetInfo marks messages that originate from the fishnet protocol layer.
func (l *Logger) FishnetInfo(line string) {
	l.record(LevelFishnet)
	l.println("><> " + line)
}

// Warn writes "W: <line>".
func (l *Logger) Warn(line string) {
	l.record(LevelWarn)
	l.println("W: " + line)
}

// Error writes "E: <line>".
func (l *Logger) Error(line string) {
	l.record(LevelError)
	l.println("E: " + line)
}

// Stats returns how many times each level was written across all clones.
func (l *Logger) Stats() map[Level]uint64 {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	out := make(map[Level]uint64, levelCount)
	for lvl := Level(0); lvl < levelCount; lvl++ {
		out[lvl] = l.state.lines[lvl]
	}
	return out
}

func (l *Logger) record(level Level) {
	l.state.mu.Lock()
	l.state.lines[level]++
	l.state.mu.Unlock()
}

func (l *Logger) println(line string) {
	w := l.stdout
	if l.stderr {
		w = l.errw
	}
	_, _ = fmt.Fprintln(w, line)
}

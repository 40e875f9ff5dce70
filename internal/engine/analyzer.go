// Package engine runs the external analysis engine for single positions.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fishnet/internal/ipc"
)

// Result summarises the search for one position.
type Result struct {
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
}

// Analyzer analyses one position at a time. Implementations must be safe for
// concurrent use by several workers.
type Analyzer interface {
	Analyze(ctx context.Context, pos ipc.Position) (Result, error)
}

// Subprocess runs "<Path> <batch-id> <position-id>" for each position and
// reads UCI info lines from its stdout.
type Subprocess struct {
	Path   string
	Runner CmdRunner

	// StderrLog receives engine stderr lines prefixed with the position.
	StderrLog func(string)
}

// NewSubprocess returns an analyzer for the engine at path. A nil runner
// selects the default os/exec runner.
func NewSubprocess(path string, runner CmdRunner) *Subprocess {
	if runner == nil {
		runner = NewDefaultRunner(nil)
	}
	return &Subprocess{Path: path, Runner: runner}
}

func (s *Subprocess) Analyze(ctx context.Context, pos ipc.Position) (Result, error) {
	var last Info
	start := time.Now()

	var stderrLine func(string)
	if s.StderrLog != nil {
		prefix := fmt.Sprintf("%s#%s: ", pos.BatchID, pos.PositionID)
		stderrLine = func(line string) {
			s.StderrLog(prefix + line)
		}
	}

	res, err := s.Runner.Run(ctx, CmdSpec{
		Path:       s.Path,
		Args:       []string{pos.BatchID.String(), pos.PositionID.String()},
		StderrLine: stderrLine,
		StdoutLine: func(line string) {
			info, ok := ParseInfo(line)
			if !ok {
				return
			}
			if info.Depth > 0 {
				last.Depth = info.Depth
			}
			if info.Nodes > 0 {
				last.Nodes = info.Nodes
			}
			if info.Time > 0 {
				last.Time = info.Time
			}
		},
	})
	if err != nil {
		if tail := lastLine(res.Stderr); tail != "" {
			return Result{}, fmt.Errorf("%w: %s", err, tail)
		}
		return Result{}, err
	}

	out := Result{Depth: last.Depth, Nodes: last.Nodes, Elapsed: last.Time}
	if out.Elapsed == 0 {
		out.Elapsed = time.Since(start)
	}
	return out, nil
}

// Simulated pretends to search each position for Delay at NPS nodes per
// second. It is used when no engine is configured.
type Simulated struct {
	Delay time.Duration
	NPS   uint64
}

func (s Simulated) Analyze(ctx context.Context, _ ipc.Position) (Result, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-t.C:
		}
	}
	return Result{Nodes: s.nodes(), Elapsed: s.Delay}, nil
}

func (s Simulated) nodes() uint64 {
	return uint64(float64(s.NPS) * max(s.Delay, 0).Seconds())
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

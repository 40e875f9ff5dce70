package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// WaitDelay bounds how long Run waits for output after the engine exits or is
// killed. Wrapper scripts leave grandchildren holding the pipes open.
const WaitDelay = time.Second

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path string
	Args []string

	StdoutLine func(string) // called for each stdout line (if non-nil)
	StderrLine func(string) // called for each stderr line (if non-nil)
}

// CmdResult contains captured stderr and exit status. Stdout is only
// captured when no StdoutLine callback is set.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
}

// CmdRunner runs subprocesses. Tests substitute a fake.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

// DefaultRunner runs commands with os/exec.
type DefaultRunner struct {
	// Trace receives the command line before it runs, if set.
	Trace func(string)
}

// NewDefaultRunner returns a runner that reports command lines to trace.
func NewDefaultRunner(trace func(string)) *DefaultRunner {
	return &DefaultRunner{Trace: trace}
}

// Run executes the command and waits for it. A non-zero exit is returned as
// an error, with the exit code in CmdResult.Code.
func (r *DefaultRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	var stdoutBuf, stderrBuf bytes.Buffer

	stdout := &lineWriter{fn: spec.StdoutLine}
	if spec.StdoutLine == nil {
		stdout.capture = &stdoutBuf
	}
	stderr := &lineWriter{fn: spec.StderrLine, capture: &stderrBuf}

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = WaitDelay

	if r.Trace != nil {
		r.Trace("+ " + shellQuote(spec.Path, spec.Args))
	}

	// Wait returns once the copy goroutines finish, or WaitDelay after the
	// process is gone if something else still holds the pipes.
	waitErr := cmd.Run()
	stdout.flush()
	stderr.flush()

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	res := CmdResult{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
		Code:   code,
	}
	if waitErr != nil {
		return res, fmt.Errorf("command failed (exit %d): %w", code, waitErr)
	}
	return res, nil
}

// lineWriter splits a stream into lines. os/exec writes to it from a single
// goroutine per stream.
type lineWriter struct {
	fn      func(string)
	capture *bytes.Buffer
	partial []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.partial = append(w.partial, p...)
	start := 0
	for {
		i := bytes.IndexByte(w.partial[start:], '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.partial[start : start+i]))
		start += i + 1
	}
	w.partial = append(w.partial[:0], w.partial[start:]...)
	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.partial) > 0 {
		w.emit(string(w.partial))
		w.partial = w.partial[:0]
	}
}

func (w *lineWriter) emit(line string) {
	line = strings.TrimSuffix(line, "\r")
	if w.fn != nil {
		w.fn(line)
	}
	if w.capture != nil {
		w.capture.WriteString(line)
		w.capture.WriteByte('\n')
	}
}

// shellQuote returns a printable shell-like command string for logging.
func shellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}

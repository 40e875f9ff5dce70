package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := newRootCmd()
	var out, errb bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errb.String(), err
}

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "batches.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// writeEngine creates a shell script that fails for position 1.
func writeEngine(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine")
	}
	p := filepath.Join(t.TempDir(), "engine")
	script := `#!/bin/sh
echo "info depth 5 nodes 100 time 10"
if [ "$2" = "1" ]; then
  echo "bad position" >&2
  exit 3
fi
exit 0
`
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGauge(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"20", "5"}, want: "[=====               |] 20 cores / 5 queued\n"},
		{args: []string{"5", "20"}, want: "[=====|===============] 5 cores / 20 queued\n"},
		{args: []string{"0", "0"}, want: "[                    ] 0 cores / 0 queued\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "/"), func(t *testing.T) {
			out, _, err := execute(t, append([]string{"gauge"}, tt.args...)...)
			if err != nil {
				t.Fatalf("gauge: %v", err)
			}
			if out != tt.want {
				t.Errorf("out = %q, want %q", out, tt.want)
			}
		})
	}

	_, _, err := execute(t, "gauge", "x", "1")
	if ExitCode(err) != ExitCLIError {
		t.Errorf("bad cores: exit = %d (%v)", ExitCode(err), err)
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "batch", args: []string{"--batch", "B1"}, want: "B1\n"},
		{name: "position", args: []string{"--batch", "B1", "--position", "0"}, want: "B1#0\n"},
		{name: "url", args: []string{"--batch", "B1", "--url", "https://lichess.org/abc#old", "--position", "7"}, want: "https://lichess.org/abc#7\n"},
		{name: "url only", args: []string{"--batch", "B1", "--url", "https://lichess.org/abc"}, want: "https://lichess.org/abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"locate"}, tt.args...)...)
			if err != nil {
				t.Fatalf("locate: %v", err)
			}
			if out != tt.want {
				t.Errorf("out = %q, want %q", out, tt.want)
			}
		})
	}

	if _, _, err := execute(t, "locate"); err == nil {
		t.Error("locate without --batch succeeded")
	}
	if _, _, err := execute(t, "locate", "--batch", "B", "--url", "ftp://x/y"); ExitCode(err) != ExitCLIError {
		t.Errorf("bad url: exit = %d (%v)", ExitCode(err), err)
	}
}

func TestRunPlainSimulated(t *testing.T) {
	path := writeBatchFile(t, "batches:\n  - id: B\n    count: 2\n")
	out, errOut, err := execute(t, "run", "--no-ui", "--delay", "1ms", "--cores", "1", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if errOut != "" {
		t.Errorf("stderr = %q, want empty", errOut)
	}

	want := "\n### Analysing 2 positions from " + path + "\n\n" +
		"[====================|] 1 cores / 1 queued, latest: B#0\n" +
		"[                    |] 1 cores / 0 queued, latest: B#1\n" +
		"><> Batch B finished (2 positions, 1,000,000 nps)\n" +
		"Analysed 2 positions from 1 batches in "
	if !strings.HasPrefix(out, want) {
		t.Errorf("out =\n%s\nwant prefix\n%s", out, want)
	}
}

func TestRunStderrKeepsProgressOnStdout(t *testing.T) {
	path := writeBatchFile(t, "batches:\n  - id: B\n    count: 1\n")
	out, errOut, err := execute(t, "--stderr", "run", "--no-ui", "--delay", "1ms", "--cores", "1", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "[                    |] 1 cores / 0 queued, latest: B#0\n" {
		t.Errorf("stdout = %q", out)
	}
	if !strings.HasPrefix(errOut, "\n### Analysing 1 positions") || !strings.Contains(errOut, "><> Batch B finished") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRunEngineFailures(t *testing.T) {
	eng := writeEngine(t)
	path := writeBatchFile(t, "batches:\n  - id: B\n    count: 3\n")
	out, _, err := execute(t, "run", "--no-ui", "--engine", eng, "--cores", "1", path)

	if ExitCode(err) != ExitAnalysisError {
		t.Fatalf("exit = %d (%v), want %d", ExitCode(err), err, ExitAnalysisError)
	}
	if !strings.Contains(err.Error(), "1 of 3 positions failed") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out, "E: B#1: command failed (exit 3)") || !strings.Contains(out, "bad position") {
		t.Errorf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, "><> Batch B finished (3 positions, 1 failed, 10,000 nps)") {
		t.Errorf("missing batch summary:\n%s", out)
	}
}

func TestRunVerboseEchoesEngineStderr(t *testing.T) {
	eng := writeEngine(t)
	path := writeBatchFile(t, "batches:\n  - id: B\n    positions: [1]\n")
	out, _, _ := execute(t, "-v", "run", "--no-ui", "--engine", eng, "--cores", "1", path)

	if !strings.Contains(out, "D: B#1: bad position") {
		t.Errorf("engine stderr not echoed:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	good := writeBatchFile(t, "batches:\n  - id: B\n    count: 1\n")
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "missing file", args: []string{"run", "--no-ui", "--delay", "1ms", "/nonexistent/batches.yaml"}, code: ExitCLIError},
		{name: "bad cores", args: []string{"--cores", "zero", "run", "--no-ui", "--delay", "1ms", good}, code: ExitCLIError},
		{name: "missing engine", args: []string{"run", "--no-ui", "--engine", "/nonexistent/engine", good}, code: ExitMissingEngine},
		{name: "negative delay", args: []string{"run", "--no-ui", "--delay=-1s", good}, code: ExitCLIError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if got := ExitCode(err); got != tt.code {
				t.Errorf("exit = %d (%v), want %d", got, err, tt.code)
			}
		})
	}
}

func TestEnvironmentConfiguresCores(t *testing.T) {
	t.Setenv("FISHNET_CORES", "3")
	path := writeBatchFile(t, "batches:\n  - id: A\n    count: 5\n  - id: B\n    count: 2\n")
	out, _, err := execute(t, "plan", path)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for _, want := range []string{
		"### Plan for " + path,
		"- A: 5 positions",
		"- Queue at start: [========|============] 3 cores / 7 queued",
		"- 7 positions on 3 cores, 3 rounds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plan output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctor(t *testing.T) {
	eng := writeEngine(t)
	out, _, err := execute(t, "doctor", "--engine", eng, "--cores", "2")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !strings.Contains(out, "Engine: "+eng) || !strings.Contains(out, "Cores:  2") {
		t.Errorf("out = %q", out)
	}

	_, _, err = execute(t, "doctor", "--engine", "/nonexistent/engine")
	if ExitCode(err) != ExitMissingEngine {
		t.Errorf("exit = %d (%v)", ExitCode(err), err)
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "fishnet") {
		t.Error("bash completion does not mention fishnet")
	}
	if _, _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell accepted")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: ExitOK},
		{err: errors.New("plain"), want: ExitCLIError},
		{err: &ExitError{Code: ExitMissingEngine}, want: ExitMissingEngine},
		{err: &ExitError{Code: ExitAnalysisError, Err: errors.New("x")}, want: ExitAnalysisError},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// DefaultName is looked up on PATH when no engine is configured.
const DefaultName = "stockfish"

var ErrNotFound = errors.New("engine not found")

// FindEngine returns the path of the analysis engine. A custom value may be
// a file path or a command name on PATH.
func FindEngine(custom string) (string, error) {
	if custom != "" {
		if st, err := os.Stat(custom); err == nil && !st.IsDir() {
			return custom, nil
		}
		if p, err := exec.LookPath(custom); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: could not find engine at %q", ErrNotFound, custom)
	}
	if p, err := exec.LookPath(DefaultName); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%w: could not find %s in PATH, install it or pass --engine", ErrNotFound, DefaultName)
}

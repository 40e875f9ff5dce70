package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"fishnet/internal/ipc"
	"fishnet/internal/pipeline"
)

// ErrInterrupted is returned when the user quits before the run finishes.
var ErrInterrupted = errors.New("interrupted")

// Run processes batches while showing the live queue view.
func Run(ctx context.Context, batches []ipc.Batch, cfg Config) (pipeline.Summary, error) {
	m := NewModel(ctx, batches, cfg)
	defer m.cancel()

	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return pipeline.Summary{}, err
	}
	fm, ok := final.(Model)
	if !ok || !fm.done {
		return pipeline.Summary{}, ErrInterrupted
	}
	return fm.summary, fm.err
}

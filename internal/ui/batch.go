package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"

	"fishnet/internal/ipc"
	"fishnet/internal/logger"
)

type batchState struct {
	id    ipc.BatchID
	at    logger.ProgressAt
	total int
	done  int

	bar bubblesprogress.Model
}

func newBatchState(b ipc.Batch) *batchState {
	return &batchState{
		id:    b.ID,
		at:    logger.ProgressAt{BatchID: b.ID, BatchURL: b.URL},
		total: len(b.Positions),
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(30),
		),
	}
}

func (b *batchState) finished() bool {
	return b.done >= b.total
}

func (b *batchState) fraction() float64 {
	if b.total == 0 {
		return 1
	}
	return float64(b.done) / float64(b.total)
}

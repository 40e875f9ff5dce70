// Package queue holds positions waiting for analysis and reports progress as
// they complete.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"fishnet/internal/ipc"
	"fishnet/internal/logger"
	"fishnet/internal/progress"
)

var (
	ErrClosed         = errors.New("queue closed")
	ErrDuplicateBatch = errors.New("batch already queued")
	ErrUnknownBatch   = errors.New("unknown batch")
	ErrEmptyBatch     = errors.New("batch has no positions")
)

// Outcome is the result of analysing one position.
type Outcome struct {
	Nodes   uint64
	Elapsed time.Duration
	Err     error
}

// Queue is safe for concurrent use. Pending counts every position that has
// not completed yet, including positions currently being analysed.
type Queue struct {
	cores    int
	reporter progress.Reporter

	mu       sync.Mutex
	waiting  []ipc.Position
	inFlight int
	batches  map[ipc.BatchID]*batchState
	closed   bool
	wake     chan struct{} // closed and replaced whenever waiting or closed changes
}

type batchState struct {
	total     int
	remaining int
	failed    int
	nodes     uint64
	elapsed   time.Duration
}

// New creates a queue for the given number of cores.
func New(cores int, reporter progress.Reporter) *Queue {
	return &Queue{
		cores:    cores,
		reporter: reporter,
		batches:  make(map[ipc.BatchID]*batchState),
		wake:     make(chan struct{}),
	}
}

// Add queues every position of b.
func (q *Queue) Add(b ipc.Batch) error {
	if len(b.Positions) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyBatch, b.ID)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if _, ok := q.batches[b.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBatch, b.ID)
	}
	q.batches[b.ID] = &batchState{total: len(b.Positions), remaining: len(b.Positions)}
	q.waiting = append(q.waiting, b.Work()...)
	q.broadcastLocked()
	return nil
}

// Pull blocks until a position is available. It returns false once the queue
// is closed and drained, or when ctx is done.
func (q *Queue) Pull(ctx context.Context) (ipc.Position, bool) {
	for {
		q.mu.Lock()
		if len(q.waiting) > 0 {
			pos := q.waiting[0]
			q.waiting = q.waiting[1:]
			q.inFlight++
			q.mu.Unlock()
			return pos, true
		}
		if q.closed {
			q.mu.Unlock()
			return ipc.Position{}, false
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ipc.Position{}, false
		case <-wake:
		}
	}
}

// Complete records the outcome for a pulled position and reports progress.
func (q *Queue) Complete(pos ipc.Position, out Outcome) error {
	q.mu.Lock()
	b, ok := q.batches[pos.BatchID]
	if !ok {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownBatch, pos.BatchID)
	}
	q.inFlight--
	b.remaining--
	b.nodes += out.Nodes
	b.elapsed += out.Elapsed
	if out.Err != nil {
		b.failed++
	}
	finished := b.remaining == 0
	if finished {
		delete(q.batches, pos.BatchID)
	}
	status := q.statusLocked()
	q.mu.Unlock()

	if q.reporter == nil {
		return nil
	}
	q.reporter.Progress(status, logger.ProgressAtPosition(pos))
	if finished {
		q.reporter.FishnetInfo(batchSummary(pos.BatchID, b))
	}
	return nil
}

// Close stops accepting batches. Positions already queued can still be pulled.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.broadcastLocked()
}

// Status is the current gauge input.
func (q *Queue) Status() logger.QueueStatusBar {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.statusLocked()
}

func (q *Queue) statusLocked() logger.QueueStatusBar {
	return logger.QueueStatusBar{
		Cores:   q.cores,
		Pending: len(q.waiting) + q.inFlight,
	}
}

func (q *Queue) broadcastLocked() {
	close(q.wake)
	q.wake = make(chan struct{})
}

func batchSummary(id ipc.BatchID, b *batchState) string {
	parts := []string{fmt.Sprintf("%d positions", b.total)}
	if b.failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", b.failed))
	}
	if b.nodes > 0 && b.elapsed > 0 {
		nps := float64(b.nodes) / b.elapsed.Seconds()
		parts = append(parts, humanize.Comma(int64(nps))+" nps")
	}
	return fmt.Sprintf("Batch %s finished (%s)", id, strings.Join(parts, ", "))
}

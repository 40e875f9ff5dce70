// Package ipc holds the work model exchanged between the queue, the workers
// and the status output: batches and the positions they contain.
package ipc

import (
	"net/url"
	"strconv"
)

// BatchID identifies a batch of work.
type BatchID string

func (id BatchID) String() string {
	return string(id)
}

// PositionID identifies a single position within its batch.
type PositionID uint

func (id PositionID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Position is one unit of work. URL is optional.
type Position struct {
	BatchID    BatchID
	PositionID PositionID
	URL        *url.URL
}

// Batch is a named group of positions that share an optional URL.
type Batch struct {
	ID        BatchID
	URL       *url.URL
	Positions []PositionID
}

// Work expands the batch into positions, in order.
func (b Batch) Work() []Position {
	out := make([]Position, 0, len(b.Positions))
	for _, id := range b.Positions {
		out = append(out, Position{
			BatchID:    b.ID,
			PositionID: id,
			URL:        b.URL,
		})
	}
	return out
}

// Package batchfile reads batches of positions from a YAML file.
//
//	batches:
//	  - id: B1
//	    url: https://lichess.org/abc
//	    positions: [0, 1, 2]
//	  - count: 40
package batchfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fishnet/internal/ipc"
)

var ErrNoPositions = errors.New("batch has no positions")

// MaxCount is the largest count a batch entry may request.
const MaxCount = 1_000_000

type file struct {
	Batches []entry `yaml:"batches"`
}

type entry struct {
	ID        string `yaml:"id"`
	URL       string `yaml:"url"`
	Positions []uint `yaml:"positions"`
	Count     int    `yaml:"count"`
}

// Load reads and parses the batch file at path.
func Load(path string) ([]ipc.Batch, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("batch file not found: %s", path)
		}
		return nil, err
	}
	batches, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batches, nil
}

// Parse decodes a batch document. Batches without an id get a random UUID.
func Parse(data []byte) ([]ipc.Batch, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse batches: %w", err)
	}

	out := make([]ipc.Batch, 0, len(f.Batches))
	for i, e := range f.Batches {
		b, err := e.batch()
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (e entry) batch() (ipc.Batch, error) {
	b := ipc.Batch{ID: ipc.BatchID(e.ID)}
	if b.ID == "" {
		b.ID = ipc.BatchID(uuid.NewString())
	}

	if e.URL != "" {
		u, err := ipc.ParseURL(e.URL)
		if err != nil {
			return ipc.Batch{}, err
		}
		b.URL = u
	}

	switch {
	case e.Count < 0 || e.Count > MaxCount:
		return ipc.Batch{}, fmt.Errorf("%s: count %d out of range [1, %d]", b.ID, e.Count, MaxCount)
	case len(e.Positions) > 0 && e.Count > 0:
		return ipc.Batch{}, fmt.Errorf("%s: positions and count are mutually exclusive", b.ID)
	case len(e.Positions) > 0:
		b.Positions = make([]ipc.PositionID, len(e.Positions))
		for i, p := range e.Positions {
			b.Positions[i] = ipc.PositionID(p)
		}
	case e.Count > 0:
		b.Positions = make([]ipc.PositionID, e.Count)
		for i := range b.Positions {
			b.Positions[i] = ipc.PositionID(i)
		}
	default:
		return ipc.Batch{}, fmt.Errorf("%w: %s", ErrNoPositions, b.ID)
	}
	return b, nil
}

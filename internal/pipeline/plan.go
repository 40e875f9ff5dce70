package pipeline

import (
	"fishnet/internal/ipc"
	"fishnet/internal/logger"
)

// Plan describes the work a run would do, without analysing anything.
type Plan struct {
	Cores     int
	Batches   []BatchPlan
	Positions int
	Initial   logger.QueueStatusBar
	// Rounds is how many times each core must pull if all positions take
	// equally long.
	Rounds int
}

// BatchPlan is one batch of a Plan.
type BatchPlan struct {
	At        logger.ProgressAt
	Positions int
}

// PlanRun computes the plan for batches on the given number of cores.
func PlanRun(batches []ipc.Batch, cores int) Plan {
	cores = max(cores, 1)
	p := Plan{Cores: cores}
	for _, b := range batches {
		p.Batches = append(p.Batches, BatchPlan{
			At:        logger.ProgressAt{BatchID: b.ID, BatchURL: b.URL},
			Positions: len(b.Positions),
		})
		p.Positions += len(b.Positions)
	}
	p.Initial = logger.QueueStatusBar{Cores: cores, Pending: p.Positions}
	p.Rounds = (p.Positions + cores - 1) / cores
	return p
}

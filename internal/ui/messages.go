package ui

import (
	"fishnet/internal/pipeline"
	"fishnet/internal/progress"
)

type queueMsg struct {
	S progress.Snapshot
}

type logMsg struct {
	L progress.Log
}

type doneMsg struct {
	Summary pipeline.Summary
	Err     error
}

package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fishnet/internal/engine"
	"fishnet/internal/ipc"
	"fishnet/internal/logger"
	"fishnet/internal/pipeline"
	"fishnet/internal/progress"
)

func testBatches() []ipc.Batch {
	return []ipc.Batch{
		{ID: "B1", Positions: []ipc.PositionID{0, 1}},
		{ID: "B2", Positions: []ipc.PositionID{0}},
	}
}

func TestNewModel(t *testing.T) {
	batches := append(testBatches(), ipc.Batch{ID: "B1", Positions: []ipc.PositionID{9}})
	m := NewModel(context.Background(), batches, Config{Cores: 2})
	defer m.cancel()

	if len(m.order) != 2 {
		t.Errorf("rows = %v, want duplicates skipped", m.order)
	}
	if m.status != (logger.QueueStatusBar{Cores: 2, Pending: 3}) {
		t.Errorf("initial status = %+v", m.status)
	}
	if v := m.View(); !strings.Contains(v, m.status.String()) || !strings.Contains(v, "latest: waiting") {
		t.Errorf("initial view missing gauge or placeholder:\n%s", v)
	}
}

func TestUpdateQueueAndLogs(t *testing.T) {
	m := NewModel(context.Background(), testBatches(), Config{Cores: 2})
	defer m.cancel()

	snap := progress.Snapshot{
		Queue: logger.QueueStatusBar{Cores: 2, Pending: 1},
		At:    logger.ProgressAtPosition(ipc.Position{BatchID: "B2", PositionID: 0}),
	}
	next, cmd := m.Update(queueMsg{S: snap})
	m = next.(Model)
	if cmd == nil {
		t.Error("queue update did not keep listening for events")
	}
	if m.status != snap.Queue || m.latest != "B2#0" {
		t.Errorf("status = %+v latest = %q", m.status, m.latest)
	}
	if !m.rows["B2"].finished() || m.rows["B1"].finished() {
		t.Error("row completion not tracked per batch")
	}
	if m.batchesDone() != 1 {
		t.Errorf("batchesDone = %d, want 1", m.batchesDone())
	}

	for i := 0; i < maxLogLines+3; i++ {
		next, _ = m.Update(logMsg{L: progress.Log{Level: logger.LevelError, Line: "boom"}})
		m = next.(Model)
	}
	if len(m.logs) != maxLogLines {
		t.Errorf("kept %d log lines, want %d", len(m.logs), maxLogLines)
	}

	v := m.View()
	for _, want := range []string{snap.Queue.String(), "latest: B2#0", "E: boom", "Batches: 1/2 done"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestUpdateDoneQuits(t *testing.T) {
	m := NewModel(context.Background(), testBatches(), Config{Cores: 1})
	defer m.cancel()

	sum := pipeline.Summary{Batches: 2, Positions: 3}
	next, cmd := m.Update(doneMsg{Summary: sum})
	m = next.(Model)
	if !m.done || m.summary != sum {
		t.Errorf("done = %v summary = %+v", m.done, m.summary)
	}
	if cmd == nil {
		t.Fatal("done did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done did not quit the program")
	}
}

func TestQuitKeyCancels(t *testing.T) {
	m := NewModel(context.Background(), testBatches(), Config{Cores: 1})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	select {
	case <-m.ctx.Done():
	default:
		t.Error("q did not cancel the run")
	}
}

func TestRunPipelineCmdStreamsEvents(t *testing.T) {
	m := NewModel(context.Background(), testBatches(), Config{Cores: 2, Analyzer: engine.Simulated{}})
	defer m.cancel()

	go m.runPipelineCmd()()

	var snaps, finished int
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-m.eventCh:
			switch msg := msg.(type) {
			case queueMsg:
				snaps++
			case logMsg:
				if msg.L.Level == logger.LevelFishnet {
					finished++
				}
			case doneMsg:
				if msg.Err != nil {
					t.Fatalf("run error: %v", msg.Err)
				}
				if snaps != 3 || finished != 2 || msg.Summary.Positions != 3 {
					t.Errorf("snaps = %d finished = %d summary = %+v", snaps, finished, msg.Summary)
				}
				return
			}
		case <-timeout:
			t.Fatal("pipeline did not finish")
		}
	}
}

func TestTeaReporterStopsAfterDone(t *testing.T) {
	done := make(chan struct{})
	close(done)
	r := teaReporter{ch: make(chan tea.Msg), done: done}

	finished := make(chan struct{})
	go func() {
		r.Error("nobody listening")
		r.Progress(logger.QueueStatusBar{}, logger.ProgressAt{BatchID: "B"})
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("reporter blocked after the program stopped")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}

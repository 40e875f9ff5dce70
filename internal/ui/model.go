package ui

import (
	"context"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"fishnet/internal/engine"
	"fishnet/internal/ipc"
	"fishnet/internal/logger"
	"fishnet/internal/pipeline"
	"fishnet/internal/progress"
)

// maxLogLines is how many recent log lines the view keeps.
const maxLogLines = 8

// Config selects how the TUI runs the pipeline.
type Config struct {
	Analyzer engine.Analyzer
	Cores    int
	Verbose  int
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg     Config
	batches []ipc.Batch

	// Queue state
	rows   map[ipc.BatchID]*batchState
	order  []ipc.BatchID
	status logger.QueueStatusBar
	latest string
	logs   []progress.Log

	done    bool
	summary pipeline.Summary
	err     error

	// UI
	width, height int
	styles        Styles
	spinner       spinner.Model
	capacity      bubblesprogress.Model

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, batches []ipc.Batch, cfg Config) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	rows := make(map[ipc.BatchID]*batchState, len(batches))
	order := make([]ipc.BatchID, 0, len(batches))
	pending := 0
	for _, b := range batches {
		if _, dup := rows[b.ID]; dup {
			continue
		}
		rows[b.ID] = newBatchState(b)
		order = append(order, b.ID)
		pending += len(b.Positions)
	}

	sp := spinner.New()
	sp.Style = sty.Spinner

	return Model{
		ctx:      c,
		cancel:   cancel,
		cfg:      cfg,
		batches:  batches,
		rows:     rows,
		order:    order,
		status:   logger.QueueStatusBar{Cores: cfg.Cores, Pending: pending},
		styles:   sty,
		spinner:  sp,
		capacity: bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(40)),
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.listenEventsCmd(),
		m.runPipelineCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case queueMsg:
		m.status = msg.S.Queue
		m.latest = msg.S.At.String()
		if row, ok := m.rows[msg.S.At.BatchID]; ok {
			row.done++
		}
		return m, m.listenEventsCmd()

	case logMsg:
		m.logs = append(m.logs, msg.L)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		return m, m.listenEventsCmd()

	case doneMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewHeader() + "\n\n" + m.viewQueue() + "\n" + m.viewBatches() + m.viewLogs()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case msg := <-m.eventCh:
			return msg
		}
	}
}

// runPipelineCmd runs the whole pipeline. Its final doneMsg travels through
// eventCh behind every report the run produced.
func (m Model) runPipelineCmd() tea.Cmd {
	return func() tea.Msg {
		rep := teaReporter{ch: m.eventCh, done: m.ctx.Done()}
		svc := pipeline.NewService(
			pipeline.WithAnalyzer(m.cfg.Analyzer),
			pipeline.WithReporter(rep),
			pipeline.WithCores(m.cfg.Cores),
			pipeline.WithVerbose(m.cfg.Verbose),
		)
		sum, err := svc.Run(m.ctx, m.batches)
		rep.send(doneMsg{Summary: sum, Err: err})
		return nil
	}
}

// teaReporter forwards queue events into the program. Sends give up once the
// program has stopped so workers never block on a closed UI.
type teaReporter struct {
	ch   chan tea.Msg
	done <-chan struct{}
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.done:
	}
}

func (r teaReporter) Progress(q logger.QueueStatusBar, at logger.ProgressAt) {
	r.send(queueMsg{S: progress.Snapshot{Queue: q, At: at}})
}

func (r teaReporter) Debug(line string) {
	r.send(logMsg{L: progress.Log{Level: logger.LevelDebug, Line: line}})
}

func (r teaReporter) FishnetInfo(line string) {
	r.send(logMsg{L: progress.Log{Level: logger.LevelFishnet, Line: line}})
}

func (r teaReporter) Warn(line string) {
	r.send(logMsg{L: progress.Log{Level: logger.LevelWarn, Line: line}})
}

func (r teaReporter) Error(line string) {
	r.send(logMsg{L: progress.Log{Level: logger.LevelError, Line: line}})
}

var _ progress.Reporter = teaReporter{}

func (m Model) batchesDone() int {
	n := 0
	for _, id := range m.order {
		if m.rows[id].finished() {
			n++
		}
	}
	return n
}

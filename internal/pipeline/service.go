// Package pipeline runs batches of positions through an analyzer with one
// worker per core.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"fishnet/internal/engine"
	"fishnet/internal/ipc"
	"fishnet/internal/logger"
	"fishnet/internal/progress"
	"fishnet/internal/queue"
)

// Service orchestrates queue → workers → analyzer → reporter.
type Service struct {
	analyzer engine.Analyzer
	reporter progress.Reporter
	cores    int
	verbose  int
}

// Option configures a Service.
type Option func(*Service)

// WithAnalyzer sets the analyzer every worker uses.
func WithAnalyzer(a engine.Analyzer) Option {
	return func(s *Service) {
		s.analyzer = a
	}
}

// WithLogger reports through a plain text logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		s.reporter = l
		s.verbose = l.Verbose().Level
	}
}

// WithReporter attaches a progress reporter (used by the TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithCores sets the number of concurrent workers.
func WithCores(n int) Option {
	return func(s *Service) {
		s.cores = n
	}
}

// WithVerbose enables per-position debug lines when level > 0.
func WithVerbose(level int) Option {
	return func(s *Service) {
		s.verbose = level
	}
}

// NewService constructs a Service. Without an analyzer positions complete
// immediately; without cores a single worker is used.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.analyzer == nil {
		s.analyzer = engine.Simulated{}
	}
	if s.reporter == nil {
		s.reporter = discard{}
	}
	if s.cores <= 0 {
		s.cores = 1
	}
	return s
}

// Summary describes a finished run.
type Summary struct {
	Batches   int
	Positions int
	Failed    int
	Nodes     uint64
	Elapsed   time.Duration
}

func (s Summary) String() string {
	msg := fmt.Sprintf("Analysed %s positions from %s batches in %s",
		humanize.Comma(int64(s.Positions)), humanize.Comma(int64(s.Batches)), s.Elapsed.Round(time.Millisecond))
	if s.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", s.Failed)
	}
	return msg
}

// Run queues every batch and blocks until all positions are analysed or ctx
// is done. Failed positions are reported and counted but do not stop the run.
func (s *Service) Run(ctx context.Context, batches []ipc.Batch) (Summary, error) {
	start := time.Now()
	q := queue.New(s.cores, s.reporter)
	for _, b := range batches {
		if err := q.Add(b); err != nil {
			return Summary{}, err
		}
	}
	q.Close()

	var (
		mu  sync.Mutex
		sum = Summary{Batches: len(batches)}
		wg  sync.WaitGroup
	)
	for i := 0; i < s.cores; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				pos, ok := q.Pull(ctx)
				if !ok {
					return
				}
				out, done := s.analyze(ctx, pos)
				if !done {
					return
				}
				if err := q.Complete(pos, out); err != nil {
					s.reporter.Error(err.Error())
				}

				mu.Lock()
				sum.Positions++
				sum.Nodes += out.Nodes
				if out.Err != nil {
					sum.Failed++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sum.Elapsed = time.Since(start)
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// analyze returns false when the run was cancelled during analysis.
func (s *Service) analyze(ctx context.Context, pos ipc.Position) (queue.Outcome, bool) {
	at := logger.ProgressAtPosition(pos)
	if s.verbose > 0 {
		s.reporter.Debug("analysing " + at.String())
	}

	res, err := s.analyzer.Analyze(ctx, pos)
	if err != nil {
		// A killed engine reports its own error, not ctx.Err().
		if ctx.Err() != nil {
			return queue.Outcome{}, false
		}
		s.reporter.Error(fmt.Sprintf("%s: %v", at, err))
	}
	return queue.Outcome{Nodes: res.Nodes, Elapsed: res.Elapsed, Err: err}, true
}

type discard struct{}

func (discard) Progress(logger.QueueStatusBar, logger.ProgressAt) {}
func (discard) Debug(string)                                      {}
func (discard) FishnetInfo(string)                                {}
func (discard) Warn(string)                                       {}
func (discard) Error(string)                                      {}

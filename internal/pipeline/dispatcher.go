package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quickdraw/surpluslines/internal/stamping"
)

// Result reports one dispatched run.
type Result struct {
	Path    string
	Outcome Outcome
	Err     error
}

// Dispatcher runs one pipeline run per dropped document on its own
// goroutine. Failed runs are reported, never fatal to the daemon.
type Dispatcher struct {
	pipeline *Pipeline
	settle   time.Duration
	onResult func(Result)
	logger   *slog.Logger
	group    errgroup.Group
}

// NewDispatcher wires a dispatcher over a shared pipeline. A non-zero settle
// delays each run so whoever dropped the file can finish writing it.
func NewDispatcher(p *Pipeline, settle time.Duration, onResult func(Result), logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		pipeline: p,
		settle:   settle,
		onResult: onResult,
		logger:   logger.With("component", "dispatcher"),
	}
}

// Dispatch starts a run for the dropped document and returns immediately.
// The settle wait happens inside the run's goroutine, so a drop accepted
// just before shutdown is still covered by Wait.
func (d *Dispatcher) Dispatch(ctx context.Context, path string) {
	d.logger.Debug("dispatching run", "document", path)
	d.group.Go(func() error {
		if d.settle > 0 {
			time.Sleep(d.settle)
		}
		outcome, err := d.pipeline.Process(ctx, path)
		if d.onResult != nil {
			d.onResult(Result{Path: path, Outcome: outcome, Err: err})
		}
		return nil
	})
}

// Wait blocks until every dispatched run has completed.
func (d *Dispatcher) Wait() {
	_ = d.group.Wait()
}

// serialAssembler serializes final merges so concurrent runs cannot
// interleave writes in the shared output directory. Rendering stays
// concurrent; stamp temp files are uniquely named per run.
type serialAssembler struct {
	inner stamping.Assembler
	mu    sync.Mutex
}

func (s *serialAssembler) RenderStamp(ctx context.Context, form stamping.Form, seq int) (string, error) {
	return s.inner.RenderStamp(ctx, form, seq)
}

func (s *serialAssembler) Combine(ctx context.Context, sourcePath string, stamps []string, insertIndex int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Combine(ctx, sourcePath, stamps, insertIndex)
}

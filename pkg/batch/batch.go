package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abihost/abihost/pkg/bridge"
	"github.com/abihost/abihost/pkg/registry"
)

// Job is one module/payload pair to invoke.
type Job struct {
	// Name identifies the job in Results; it has no effect on
	// execution.
	Name    string
	Module  []byte
	Payload []byte
}

// Result pairs a Job's Name with its outcome.
type Result struct {
	Name     string
	Envelope []byte
	Err      error
}

// Run invokes every job in jobs against reg, at most cfg.Concurrency
// at a time, and returns one Result per job in the same order. Unlike
// errgroup's usual fail-fast pattern, a failing job does not cancel
// its siblings: batch verification wants a result for every module,
// not just the first failure.
func Run(ctx context.Context, engine *bridge.Engine, reg *registry.Registry, cfg Config, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(context.WithoutCancel(ctx))
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			envelope, err := engine.Invoke(ctx, reg, job.Module, job.Payload)
			results[i] = Result{Name: job.Name, Envelope: envelope, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

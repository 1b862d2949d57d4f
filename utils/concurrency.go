package utils

import (
	"context"

	"github.com/alitto/pond/v2"
)

// TaskPool runs groups of jobs on a bounded set of goroutines.
type TaskPool struct {
	pool pond.Pool
}

// NewTaskPool creates a TaskPool with the given concurrency.
func NewTaskPool(maxWorkers int) *TaskPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &TaskPool{pool: pond.NewPool(maxWorkers)}
}

// Run submits jobs as one group and blocks until all of them have finished.
// The first error is returned.
func (p *TaskPool) Run(ctx context.Context, jobs ...func() error) error {
	if len(jobs) == 0 {
		return nil
	}
	group := p.pool.NewGroupContext(ctx)
	group.SubmitErr(jobs...)
	return group.Wait()
}

// Stop waits for running jobs and releases the workers.
func (p *TaskPool) Stop() {
	p.pool.StopAndWait()
}

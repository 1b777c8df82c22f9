package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/ternarybob/arbor"
)

// Task is one unit of work submitted to the pool
type Task struct {
	ID  string
	Run func(ctx context.Context) error
}

// Result is the outcome of a task, reported in submission order
type Result struct {
	ID  string
	Err error
}

// Pool runs tasks on a fixed number of workers
type Pool struct {
	logger     arbor.ILogger
	numWorkers int
}

func NewPool(logger arbor.ILogger, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		logger:     logger,
		numWorkers: numWorkers,
	}
}

// Run executes every task and blocks until all have finished or ctx is cancelled.
// Tasks not started before cancellation report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	for i, task := range tasks {
		results[i].ID = task.ID
	}

	numWorkers := min(p.numWorkers, len(tasks))
	p.logger.Debug().
		Int("num_workers", numWorkers).
		Int("tasks", len(tasks)).
		Msg("Starting worker pool")

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range queue {
				results[i].Err = p.execute(ctx, workerID, tasks[i])
			}
		}(w)
	}

	next := 0
dispatch:
	for ; next < len(tasks); next++ {
		select {
		case <-ctx.Done():
			break dispatch
		case queue <- next:
		}
	}
	close(queue)
	wg.Wait()

	for i := next; i < len(tasks); i++ {
		results[i].Err = ctx.Err()
	}

	p.logger.Debug().Msg("Worker pool stopped")
	return results
}

// execute runs a single task, converting a panic into an error
func (p *Pool) execute(ctx context.Context, workerID int, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Int("worker_id", workerID).
				Str("task_id", task.ID).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in task")
			err = fmt.Errorf("task %s panicked: %v", task.ID, r)
		}
	}()

	p.logger.Debug().
		Int("worker_id", workerID).
		Str("task_id", task.ID).
		Msg("Processing task")

	if err := task.Run(ctx); err != nil {
		p.logger.Warn().
			Int("worker_id", workerID).
			Str("task_id", task.ID).
			Err(err).
			Msg("Task failed")
		return err
	}
	return nil
}

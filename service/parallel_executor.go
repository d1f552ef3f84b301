package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ludo-technologies/structsim/domain"
)

// ParallelExecutorImpl implements the ParallelExecutor interface
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
}

// NewParallelExecutor creates a new parallel executor
func NewParallelExecutor() domain.ParallelExecutor {
	return &ParallelExecutorImpl{
		maxConcurrency: 0,
		timeout:        10 * time.Minute,
	}
}

// Execute runs tasks in parallel with the given configuration
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	if len(tasks) == 0 {
		return nil
	}

	if pe.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pe.timeout)
		defer cancel()
	}

	var semaphore chan struct{}
	if pe.maxConcurrency > 0 {
		semaphore = make(chan struct{}, pe.maxConcurrency)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(tasks))

	for _, task := range tasks {
		if !task.IsEnabled() {
			continue
		}

		wg.Add(1)
		go func(t domain.ExecutableTask) {
			defer wg.Done()

			if semaphore != nil {
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
			}

			select {
			case <-ctx.Done():
				errChan <- fmt.Errorf("task %s cancelled: %w", t.Name(), ctx.Err())
				return
			default:
			}

			if _, err := t.Execute(ctx); err != nil {
				errChan <- fmt.Errorf("task %s failed: %w", t.Name(), err)
			}
		}(task)
	}

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		close(errChan)

		var errs []error
		for err := range errChan {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return fmt.Errorf("parallel execution failed with %d errors: %v", len(errs), errs[0])
		}
		return nil

	case <-ctx.Done():
		return fmt.Errorf("parallel execution timed out after %v", pe.timeout)
	}
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (pe *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	pe.maxConcurrency = max
}

// SetTimeout sets the timeout for all tasks
func (pe *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	pe.timeout = timeout
}

// ExtractionTask runs one file extraction inside the executor
type ExtractionTask struct {
	name    string
	execute func(context.Context) (interface{}, error)
}

// NewExtractionTask creates a task wrapping a file extraction
func NewExtractionTask(name string, execute func(context.Context) (interface{}, error)) domain.ExecutableTask {
	return &ExtractionTask{name: name, execute: execute}
}

// Name returns the name of the task
func (t *ExtractionTask) Name() string {
	return t.name
}

// Execute runs the task and returns the result
func (t *ExtractionTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execute == nil {
		return nil, fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}

// IsEnabled returns whether the task should be executed
func (t *ExtractionTask) IsEnabled() bool {
	return t.execute != nil
}

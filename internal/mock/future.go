package mock

import (
	"context"

	executor "github.com/hanpama/mockgraph/internal/executor"
)

// Future is the pending result of an asynchronous query.
type Future struct {
	done chan struct{}
	res  *executor.ExecutionResult
	err  error
}

func goFuture(fn func() (*executor.ExecutionResult, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.res, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the result is available or ctx is done.
func (f *Future) Await(ctx context.Context) (*executor.ExecutionResult, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

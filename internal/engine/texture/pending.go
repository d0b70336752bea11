package texture

import (
	"context"
	"sync"
)

// Result is the outcome of a surface load.
type Result struct {
	Surface *Surface
	Err     error
}

// Pending is a surface that may still be loading.
type Pending struct {
	done   chan struct{}
	once   sync.Once
	res    Result
	cancel context.CancelFunc
}

// Resolved returns an already completed Pending.
func Resolved(s *Surface, err error) *Pending {
	p := &Pending{done: make(chan struct{}), cancel: func() {}}
	p.finish(Result{Surface: s, Err: err})
	return p
}

// Async runs load on its own goroutine. The context passed to load is
// cancelled by Cancel; a cancelled load resolves with the context error
// and its surface is dropped.
func Async(ctx context.Context, load func(context.Context) (*Surface, error)) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer cancel()
		s, err := load(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			s, err = nil, ctxErr
		}
		p.finish(Result{Surface: s, Err: err})
	}()
	return p
}

func (p *Pending) finish(r Result) {
	p.once.Do(func() {
		p.res = r
		close(p.done)
	})
}

// Ready polls without blocking.
func (p *Pending) Ready() (Result, bool) {
	select {
	case <-p.done:
		return p.res, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the load completes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Cancel aborts an in-flight load. It is a no-op once resolved.
func (p *Pending) Cancel() {
	p.cancel()
}

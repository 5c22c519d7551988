package observer

import (
	"context"
	"errors"
)

type task struct {
	fn   func() error
	err  error
	done chan struct{}
}

// Loop owns a System on a single goroutine. Each posted task is followed by
// a microtask checkpoint, so mutations made by a task are flushed before the
// next task starts.
type Loop struct {
	sys   *System
	tasks chan *task
}

func NewLoop(sys *System) *Loop {
	return &Loop{
		sys:   sys,
		tasks: make(chan *task, 64),
	}
}

func (l *Loop) System() *System {
	return l.sys
}

// Run processes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-l.tasks:
			l.run(t)
		}
	}
}

func (l *Loop) run(t *task) {
	t.err = t.fn()
	tickErr := l.sys.Tick()
	if t.done == nil {
		if t.err != nil {
			l.sys.HandleError(t.err, nil, "task")
		}
		if tickErr != nil {
			l.sys.HandleError(tickErr, nil, "microtask checkpoint")
		}
		return
	}
	t.err = errors.Join(t.err, tickErr)
	close(t.done)
}

// Post queues fn without waiting for it. Errors are reported through
// HandleError.
func (l *Loop) Post(ctx context.Context, fn func() error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case l.tasks <- &task{fn: fn}:
		return nil
	}
}

// Do runs fn on the loop and waits until the checkpoint following it has
// flushed. It returns fn's error joined with any flush error.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	t := &task{fn: fn, done: make(chan struct{})}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case l.tasks <- t:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
		return t.err
	}
}

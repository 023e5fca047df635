package dropdown

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopClosed is returned by Next after Close
var ErrLoopClosed = errors.New("dropdown: loop closed")

// Dispatcher runs fetch continuations on the goroutine that owns the dropdown
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a function such as tview's QueueUpdateDraw
type DispatchFunc func(fn func())

// Dispatch calls f
func (f DispatchFunc) Dispatch(fn func()) { f(fn) }

// Loop is a channel mailbox for hosts that drive the dropdown from their own loop
type Loop struct {
	ch        chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a mailbox
func NewLoop() *Loop {
	return &Loop{ch: make(chan func(), 64), done: make(chan struct{})}
}

// Dispatch queues fn. It blocks while the mailbox is full and drops fn once the
// loop is closed.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.ch <- fn:
	case <-l.done:
	}
}

// Close stops the loop. Pending and later continuations are dropped and Next returns
// ErrLoopClosed.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Next runs one queued continuation, waiting for it if needed
func (l *Loop) Next(ctx context.Context) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	select {
	case fn := <-l.ch:
		fn()
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunPending runs the continuations already queued and returns how many ran
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case <-l.done:
			return n
		default:
		}
		select {
		case fn := <-l.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

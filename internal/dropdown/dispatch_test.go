package dropdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopRunPending(t *testing.T) {
	loop := NewLoop()
	var order []int
	for i := 0; i < 3; i++ {
		loop.Dispatch(func() { order = append(order, i) })
	}

	if n := loop.RunPending(); n != 3 {
		t.Errorf("RunPending ran %d continuations, want 3", n)
	}
	if len(order) != 3 || order[0] != 0 || order[2] != 2 {
		t.Errorf("continuations ran out of order: %v", order)
	}
	if n := loop.RunPending(); n != 0 {
		t.Errorf("second RunPending ran %d continuations", n)
	}
}

func TestLoopNextHonorsContext(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := loop.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next on empty loop = %v, want context.Canceled", err)
	}

	ran := false
	go loop.Dispatch(func() { ran = true })
	if err := loop.Next(context.Background()); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !ran {
		t.Error("continuation did not run")
	}
}

func TestLoopCloseReleasesDispatchers(t *testing.T) {
	loop := NewLoop()

	// One more than the mailbox holds, so the last send blocks until Close
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 65; i++ {
			loop.Dispatch(func() {})
		}
	}()

	loop.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Dispatch still blocked after Close")
	}

	ran := false
	loop.Dispatch(func() { ran = true })
	if err := loop.Next(context.Background()); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("Next after Close = %v, want ErrLoopClosed", err)
	}
	if n := loop.RunPending(); n != 0 {
		t.Errorf("RunPending after Close ran %d continuations", n)
	}
	if ran {
		t.Error("continuation dispatched after Close ran")
	}

	loop.Close()
}

func TestDispatchFunc(t *testing.T) {
	calls := 0
	var d Dispatcher = DispatchFunc(func(fn func()) {
		calls++
		fn()
	})

	ran := false
	d.Dispatch(func() { ran = true })
	if calls != 1 || !ran {
		t.Errorf("calls=%d ran=%v", calls, ran)
	}
}

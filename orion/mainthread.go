package orion

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrMainThreadStopped = errors.New("main thread stopped")

type funcRun struct {
	fn   func() error
	done chan error
}

// MainThread funnels work onto the single thread that is allowed to create
// windows, surfaces and devices. Other goroutines submit functions with Call,
// the owning thread executes them in Process.
type MainThread struct {
	queue chan funcRun

	// wakes up the owning thread if it is blocked waiting for events
	wake func()

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewMainThread creates an executor. wake may be nil.
func NewMainThread(wake func()) *MainThread {
	if wake == nil {
		wake = func() {}
	}

	return &MainThread{
		queue:   make(chan funcRun, 16),
		wake:    wake,
		stopped: make(chan struct{}),
	}
}

// Call runs fn on the main thread and waits for its result. It must not be
// called from the main thread itself. If ctx is done before fn completes,
// Call returns the context error, fn might still run later.
func (m *MainThread) Call(ctx context.Context, fn func() error) error {
	req := funcRun{fn: fn, done: make(chan error, 1)}

	select {
	case m.queue <- req:
	case <-m.stopped:
		return ErrMainThreadStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	m.wake()

	select {
	case err := <-req.done:
		return err
	case <-m.stopped:
		return ErrMainThreadStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Process runs all pending functions and returns how many ran.
// Must be called from the main thread.
func (m *MainThread) Process() int {
	var count int

	for {
		select {
		case req := <-m.queue:
			req.done <- runRecovered(req.fn)
			count++

		default:
			return count
		}
	}
}

// Stop makes all pending and future calls fail with ErrMainThreadStopped.
func (m *MainThread) Stop() {
	m.stopOnce.Do(func() { close(m.stopped) })
}

func runRecovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic on main thread: %v", r)
		}
	}()

	return fn()
}

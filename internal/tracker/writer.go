package tracker

import (
	"context"
	"sync"
)

// batch lists the slots that need writing. clear always runs before the saves of the same
// batch. Marking clear drops a queued theme save and turns the tasks save into a check that
// only writes when tasks were added after the clear.
type batch struct {
	clear bool
	tasks bool
	theme bool
}

func (b batch) empty() bool {
	return !b.clear && !b.tasks && !b.theme
}

// writer persists state on a single background goroutine. Bursts of mutations coalesce into
// one write of the latest state.
type writer struct {
	mu      sync.Mutex
	pending batch
	closed  bool
	applyMu sync.Mutex

	apply   func(context.Context, batch)
	signal  chan struct{}
	flushes chan chan struct{}
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newWriter(apply func(context.Context, batch)) *writer {
	w := &writer{
		apply:   apply,
		signal:  make(chan struct{}, 1),
		flushes: make(chan chan struct{}),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *writer) mark(b batch) {
	w.mu.Lock()
	if b.clear {
		w.pending = batch{clear: true, tasks: true}
	}
	w.pending.tasks = w.pending.tasks || b.tasks
	w.pending.theme = w.pending.theme || b.theme
	closed := w.closed
	w.mu.Unlock()

	if closed {
		w.drain()
		return
	}
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *writer) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.signal:
			w.drain()
		case ack := <-w.flushes:
			w.drain()
			close(ack)
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	w.applyMu.Lock()
	defer w.applyMu.Unlock()

	w.mu.Lock()
	b := w.pending
	w.pending = batch{}
	w.mu.Unlock()

	if b.empty() {
		return
	}
	w.apply(context.Background(), b)
}

// flush waits until everything marked before the call has been written.
func (w *writer) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.flushes <- ack:
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains pending writes and stops the goroutine. Later marks are written synchronously.
func (w *writer) close(ctx context.Context) error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
	})
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package executor

import (
	"context"
	"log"
	"sync"
)

// Looper runs posted functions one at a time, in order, on a single goroutine. It is the
// coordination goroutine: the state store, the event bus and UI pushes are only touched from it.
type Looper struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	started bool
	stopped bool
	once    sync.Once
}

// NewLooper creates a looper. Nothing runs until Start or Run is called.
func NewLooper() *Looper {
	return &Looper{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Post queues fn. It returns false once the looper has been stopped.
func (l *Looper) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do posts fn and blocks until it has run. It must not be called from the looper goroutine.
func (l *Looper) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		// Stopped before fn got its turn.
		select {
		case <-finished:
			return true
		default:
			return false
		}
	}
}

// Start runs the loop on a new goroutine.
func (l *Looper) Start() {
	if l.begin() {
		go l.loop(context.Background())
	}
}

// Run processes posted functions on the calling goroutine until Stop is called or ctx is done.
func (l *Looper) Run(ctx context.Context) {
	if l.begin() {
		l.loop(ctx)
	}
}

func (l *Looper) begin() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		log.Println("[looper] already running")
		return false
	}
	l.started = true
	return true
}

func (l *Looper) loop(ctx context.Context) {
	defer close(l.done)
	for {
		batch := l.take()
		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		select {
		case <-l.wake:
		case <-l.quit:
			l.drain()
			return
		case <-ctx.Done():
			l.markStopped()
			l.drain()
			return
		}
	}
}

func (l *Looper) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

// drain runs whatever was queued before the stop.
func (l *Looper) drain() {
	for _, fn := range l.take() {
		fn()
	}
}

func (l *Looper) markStopped() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
}

// Stop rejects further posts, runs what is already queued and waits for the loop to exit.
func (l *Looper) Stop() {
	l.once.Do(func() {
		l.markStopped()
		close(l.quit)
	})
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if started {
		<-l.done
	}
}

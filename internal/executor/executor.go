package executor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrentCalls bounds how many task bodies run at once.
const DefaultMaxConcurrentCalls = 4

// Executor runs task bodies on a worker pool and delivers their callbacks on the looper.
type Executor struct {
	looper *Looper
	pool   *pool.Pool
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	idle     *sync.Cond
	inFlight map[string]int
	pending  int
	debug    bool
}

// New creates an executor delivering callbacks on looper.
func New(looper *Looper, maxConcurrentCalls int) *Executor {
	if maxConcurrentCalls <= 0 {
		maxConcurrentCalls = DefaultMaxConcurrentCalls
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		looper:   looper,
		pool:     pool.New(),
		sem:      semaphore.NewWeighted(int64(maxConcurrentCalls)),
		ctx:      ctx,
		cancel:   cancel,
		inFlight: make(map[string]int),
	}
	e.idle = sync.NewCond(&e.mu)
	return e
}

// SetDebug toggles per-task logging.
func (e *Executor) SetDebug(debug bool) {
	e.debug = debug
}

// Looper returns the coordination looper.
func (e *Executor) Looper() *Looper {
	return e.looper
}

// Execute dispatches t unconditionally. It must be called on the looper.
func (e *Executor) Execute(t Task) {
	e.dispatch(t)
}

// ExecuteUnique dispatches t unless a task with the same key is still in flight. It reports
// whether t was dispatched. It must be called on the looper.
func (e *Executor) ExecuteUnique(t Task) bool {
	if e.IsInFlight(t.Key()) {
		if e.debug {
			log.Printf("[executor] skipping %s: already in flight", t.Key())
		}
		return false
	}
	e.dispatch(t)
	return true
}

// IsInFlight reports whether a task with key has been dispatched and not yet finished.
func (e *Executor) IsInFlight(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight[key] > 0
}

func (e *Executor) dispatch(t Task) {
	key := t.Key()
	trace := uuid.NewString()
	e.begin(key)

	if e.debug {
		log.Printf("[executor] %s start %s (calling id %d)", trace, key, t.CallingID())
	}
	t.PreCall()

	e.pool.Go(func() {
		err := e.call(t)
		delivered := e.looper.Post(func() {
			if err != nil {
				log.Printf("[executor] %s %s failed: %v", trace, key, err)
				t.OnError(err)
			} else {
				t.OnSuccess()
			}
			t.OnFinished()
			if e.debug {
				log.Printf("[executor] %s finished %s", trace, key)
			}
			e.complete(key)
		})
		if !delivered {
			log.Printf("[executor] %s %s: looper stopped, dropping callbacks", trace, key)
			e.complete(key)
		}
	})
}

func (e *Executor) call(t Task) (err error) {
	if err := e.sem.Acquire(e.ctx, 1); err != nil {
		return fmt.Errorf("acquire worker: %w", err)
	}
	defer e.sem.Release(1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", t.Key(), r)
		}
	}()
	return t.Call(e.ctx)
}

// begin counts a unit of work as pending. An empty key is not tracked as in flight.
func (e *Executor) begin(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending++
	if key != "" {
		e.inFlight[key]++
	}
}

func (e *Executor) complete(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if key != "" {
		if e.inFlight[key] <= 1 {
			delete(e.inFlight, key)
		} else {
			e.inFlight[key]--
		}
	}
	e.pending--
	if e.pending == 0 {
		e.idle.Broadcast()
	}
}

// Background runs work on the pool and then done on the looper. Used for local store calls.
func (e *Executor) Background(work func(ctx context.Context), done func()) {
	e.begin("")
	e.pool.Go(func() {
		if err := e.sem.Acquire(e.ctx, 1); err == nil {
			work(e.ctx)
			e.sem.Release(1)
		}
		if done == nil || !e.looper.Post(func() {
			done()
			e.complete("")
		}) {
			e.complete("")
		}
	})
}

// Pending returns how many dispatched tasks and background jobs have not finished yet.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Wait blocks until nothing is pending. Work dispatched while it waits is waited for too. It
// must not be called on the looper.
func (e *Executor) Wait() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.pending > 0 {
		e.idle.Wait()
	}
}

// Close cancels running calls and waits for the workers to exit.
func (e *Executor) Close() {
	e.cancel()
	e.pool.Wait()
}

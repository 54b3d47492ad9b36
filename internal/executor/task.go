package executor

import "context"

// Task is a single shot unit of background work.
//
// PreCall runs on the looper before the work starts. Call runs on a worker goroutine and must
// not touch shared state; it keeps its result on the task. Exactly one of OnSuccess or OnError
// then runs on the looper, followed by OnFinished.
type Task interface {
	// CallingID identifies the UI that asked for the task, 0 for ambient work.
	CallingID() int
	// Key identifies the remote operation; tasks with equal keys fetch the same data.
	Key() string
	PreCall()
	Call(ctx context.Context) error
	OnSuccess()
	OnError(err error)
	OnFinished()
}

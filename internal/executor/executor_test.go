package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTask struct {
	key     string
	err     error
	release chan struct{}

	mu     sync.Mutex
	events []string
}

func (t *recordingTask) record(event string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *recordingTask) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

func (t *recordingTask) CallingID() int { return 1 }
func (t *recordingTask) Key() string    { return t.key }
func (t *recordingTask) PreCall()       { t.record("pre") }
func (t *recordingTask) Call(ctx context.Context) error {
	if t.release != nil {
		<-t.release
	}
	t.record("call")
	return t.err
}
func (t *recordingTask) OnSuccess()        { t.record("success") }
func (t *recordingTask) OnError(err error) { t.record("error") }
func (t *recordingTask) OnFinished()       { t.record("finished") }

type panickingTask struct{ recordingTask }

func (t *panickingTask) Call(ctx context.Context) error { panic("boom") }

func setupExecutor(t *testing.T) *Executor {
	t.Helper()
	looper := NewLooper()
	looper.Start()
	exec := New(looper, 2)
	t.Cleanup(func() {
		exec.Close()
		looper.Stop()
	})
	return exec
}

func TestExecute_CallbackOrder(t *testing.T) {
	exec := setupExecutor(t)
	ok := &recordingTask{key: "ok"}
	failing := &recordingTask{key: "failing", err: errors.New("nope")}

	exec.Looper().Do(func() {
		exec.Execute(ok)
		exec.Execute(failing)
	})
	exec.Wait()

	assert.Equal(t, []string{"pre", "call", "success", "finished"}, ok.Events())
	assert.Equal(t, []string{"pre", "call", "error", "finished"}, failing.Events())
}

func TestExecute_PanicBecomesError(t *testing.T) {
	exec := setupExecutor(t)
	task := &panickingTask{recordingTask{key: "panics"}}

	exec.Looper().Do(func() { exec.Execute(task) })
	exec.Wait()

	assert.Equal(t, []string{"pre", "error", "finished"}, task.Events())
}

func TestExecuteUnique_SuppressesInFlight(t *testing.T) {
	exec := setupExecutor(t)
	release := make(chan struct{})
	first := &recordingTask{key: "popular:1", release: release}
	second := &recordingTask{key: "popular:1"}

	var dispatched []bool
	exec.Looper().Do(func() {
		dispatched = append(dispatched, exec.ExecuteUnique(first))
		dispatched = append(dispatched, exec.ExecuteUnique(second))
	})
	assert.Equal(t, []bool{true, false}, dispatched)
	assert.True(t, exec.IsInFlight("popular:1"))

	close(release)
	exec.Wait()
	assert.False(t, exec.IsInFlight("popular:1"))
	assert.Empty(t, second.Events())

	// Once finished the key can be fetched again.
	third := &recordingTask{key: "popular:1"}
	var again bool
	exec.Looper().Do(func() { again = exec.ExecuteUnique(third) })
	require.True(t, again)
	exec.Wait()
	assert.Equal(t, []string{"pre", "call", "success", "finished"}, third.Events())
}

func TestExecute_AlwaysDispatches(t *testing.T) {
	exec := setupExecutor(t)
	release := make(chan struct{})
	first := &recordingTask{key: "trending", release: release}
	refresh := &recordingTask{key: "trending", release: release}

	exec.Looper().Do(func() {
		exec.Execute(first)
		exec.Execute(refresh)
	})
	close(release)
	exec.Wait()

	assert.Len(t, first.Events(), 4)
	assert.Len(t, refresh.Events(), 4)
}

func TestBackground(t *testing.T) {
	exec := setupExecutor(t)
	var result []string
	exec.Background(func(ctx context.Context) {
		result = append(result, "work")
	}, func() {
		result = append(result, "done")
	})
	exec.Wait()
	assert.Equal(t, []string{"work", "done"}, result)
}

func TestWait_WhileLooperKeepsDispatching(t *testing.T) {
	exec := setupExecutor(t)
	tasks := make([]*recordingTask, 50)
	for i := range tasks {
		tasks[i] = &recordingTask{key: fmt.Sprintf("page:%d", i)}
	}

	var waiters sync.WaitGroup
	for i := 0; i < 4; i++ {
		waiters.Add(1)
		go func() {
			defer waiters.Done()
			for j := 0; j < 20; j++ {
				exec.Wait()
			}
		}()
	}
	for _, task := range tasks {
		exec.Looper().Post(func() { exec.Execute(task) })
	}
	exec.Looper().Do(func() {})
	exec.Wait()
	waiters.Wait()

	assert.Equal(t, 0, exec.Pending())
	for _, task := range tasks {
		assert.Equal(t, []string{"pre", "call", "success", "finished"}, task.Events(), task.key)
	}
}

func TestLooper_RunsInOrder(t *testing.T) {
	looper := NewLooper()
	looper.Start()
	defer looper.Stop()

	var got []int
	for i := 0; i < 100; i++ {
		looper.Post(func() { got = append(got, i) })
	}
	looper.Do(func() {})

	require.Len(t, got, 100)
	for i, v := range got {
		if v != i {
			t.Fatalf("Expected %d at %d, got %d", i, i, v)
		}
	}
}

func TestLooper_StopRejectsPosts(t *testing.T) {
	looper := NewLooper()
	looper.Start()
	ran := false
	looper.Post(func() { ran = true })
	looper.Stop()

	assert.True(t, ran, "queued work drains before stop")
	assert.False(t, looper.Post(func() {}))
	assert.False(t, looper.Do(func() {}))
}

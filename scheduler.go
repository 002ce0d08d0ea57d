package task

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// yieldBackoff bounds the busy-poll cadence used by blocking stream
// operations. There is no condition-variable wakeup here: a blocked task
// simply re-polls until its condition holds, with a short sleep between
// polls so idle tasks don't peg a core.
const yieldBackoff = 200 * time.Microsecond

// deadlockScanInterval and deadlockThreshold control the watchdog: it scans
// the task registry every deadlockScanInterval, and declares a deadlock once
// it has observed deadlockThreshold consecutive scans with at least one live
// task and zero global progress.
const (
	deadlockScanInterval = 2 * time.Millisecond
	deadlockThreshold    = 150 // ~300ms of no progress
)

// globalProgress is bumped by every operation that moves a token across a
// stream boundary (a successful write, read, or EOT transition). The
// watchdog treats a long enough run of scans with no change here, while
// tasks remain registered, as a deadlock.
var globalProgress atomic.Int64

func progressed() {
	globalProgress.Add(1)
}

// registeredTask is the watchdog's view of one live goroutine.
type registeredTask struct {
	info      TaskInfo
	mu        sync.Mutex
	msg       string
	lifecycle atomic.Int32
}

func (r *registeredTask) setYield(msg string) {
	r.lifecycle.Store(int32(lifecycleBlocked))
	r.mu.Lock()
	r.msg = msg
	r.mu.Unlock()
}

func (r *registeredTask) getYield() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msg
}

func (r *registeredTask) state() taskLifecycle {
	return taskLifecycle(r.lifecycle.Load())
}

var (
	registryMu sync.Mutex
	registry   = map[uuid.UUID]*registeredTask{}

	watchdogOnce sync.Once

	// deadlockHandler is invoked by the watchdog once it declares a
	// deadlock. It defaults to logging and panicking (which, uncaught,
	// aborts the process), but tests may swap it out to observe the
	// condition without killing the test binary.
	deadlockHandlerMu sync.Mutex
	deadlockHandler   = defaultDeadlockHandler
)

func defaultDeadlockHandler(err *DeadlockError) {
	defaultSink.Log(SeverityError, "deadlock detected", "tasks", len(err.YieldMessages))
	panic(err)
}

// SetDeadlockHandler replaces the process-wide deadlock handler. Primarily
// for tests that want to assert on deadlock detection without crashing the
// test binary; production code should rarely need this.
func SetDeadlockHandler(fn func(*DeadlockError)) {
	deadlockHandlerMu.Lock()
	defer deadlockHandlerMu.Unlock()
	if fn == nil {
		fn = defaultDeadlockHandler
	}
	deadlockHandler = fn
}

func invokeDeadlockHandler(err *DeadlockError) {
	deadlockHandlerMu.Lock()
	fn := deadlockHandler
	deadlockHandlerMu.Unlock()
	fn(err)
}

func ensureWatchdog() {
	watchdogOnce.Do(func() {
		go watchdogLoop()
	})
}

func watchdogLoop() {
	var lastProgress int64 = -1
	var stagnantScans int

	for {
		time.Sleep(deadlockScanInterval)

		registryMu.Lock()
		liveCount := len(registry)
		registryMu.Unlock()

		// With nothing registered at all there is no ready queue to make
		// progress or fail to, so there is nothing to diagnose yet.
		if liveCount == 0 {
			stagnantScans = 0
			lastProgress = -1
			continue
		}

		cur := globalProgress.Load()
		if cur != lastProgress {
			lastProgress = cur
			stagnantScans = 0
			continue
		}

		stagnantScans++
		if stagnantScans < deadlockThreshold {
			continue
		}

		registryMu.Lock()
		msgs := make(map[string]string, len(registry))
		for _, rt := range registry {
			key := fmt.Sprintf("%s#%d(%s)", rt.info.Label, rt.info.Index, rt.info.ID)
			msgs[key] = rt.getYield()
		}
		registryMu.Unlock()

		stagnantScans = 0
		invokeDeadlockHandler(&DeadlockError{YieldMessages: msgs})
	}
}

// register adds info to the watchdog's registry and returns a handle used
// to update its last-yield message and to deregister it on completion.
func register(info TaskInfo) *registeredTask {
	ensureWatchdog()
	rt := &registeredTask{info: info}
	rt.lifecycle.Store(int32(lifecycleRunning))
	registryMu.Lock()
	registry[info.ID] = rt
	registryMu.Unlock()
	return rt
}

func deregister(id uuid.UUID) {
	registryMu.Lock()
	delete(registry, id)
	registryMu.Unlock()
}

type taskStateKeyType struct{}

var taskStateKey taskStateKeyType

func withTaskState(ctx context.Context, rt *registeredTask) context.Context {
	return context.WithValue(ctx, taskStateKey, rt)
}

func taskStateFromContext(ctx context.Context) *registeredTask {
	rt, _ := ctx.Value(taskStateKey).(*registeredTask)
	return rt
}

// yield records msg as the calling task's current blocking reason and gives
// the scheduler a chance to run other goroutines before re-polling. Stream
// operations call this on every iteration of a blocking wait.
func yield(ctx context.Context, msg string) {
	if rt := taskStateFromContext(ctx); rt != nil {
		rt.setYield(msg)
	}
	runtime.Gosched()
	time.Sleep(yieldBackoff)
}

// DetachTask starts fn as a detached task rooted at a background context,
// not belonging to any particular [Scope]. It is used for process-lifetime
// service tasks such as an AsyncMmap's backing loop, where there is no
// natural enclosing scope to reparent a Join-mode child onto.
func DetachTask(label string, fn TaskFunc) {
	spawn(context.Background(), label, 0, Detach, fn)
}

// spawn starts fn as a goroutine carrying its own TaskInfo and registers it
// with the watchdog for the duration of its run. It does not itself decide
// join-vs-detach bookkeeping — callers (Scope.InvokeN, DetachTask) arrange
// that separately.
func spawn(ctx context.Context, label string, index int, mode Mode, fn func(ctx context.Context)) {
	info := TaskInfo{ID: uuid.New(), Label: label, Index: index, Mode: mode}
	rt := register(info)
	taskCtx := withTaskState(ctx, rt)

	go func() {
		defer deregister(info.ID)
		defer rt.lifecycle.Store(int32(lifecycleFinished))
		defer func() {
			if r := recover(); r != nil {
				tp := &TaskPanic{Task: info, Cause: newPanicError(r)}
				defaultSink.Log(SeverityError, "task panicked", "label", label, "index", index, "panic", r)
				panic(tp)
			}
		}()
		fn(taskCtx)
	}()
}

// DiagnoseBlocked returns a snapshot of every currently registered task's
// last yield message, keyed by "label#index". The result is a map, so it
// carries no order. It is a non-fatal cousin
// of the watchdog's own dump, useful from tests and from manual debugging.
func DiagnoseBlocked() map[string]string {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make(map[string]string, len(registry))
	keys := make([]string, 0, len(registry))
	for _, rt := range registry {
		key := fmt.Sprintf("%s#%d", rt.info.Label, rt.info.Index)
		out[key] = rt.getYield()
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return out
}

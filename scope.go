// Scope is this runtime's stand-in for the original task::task()/
// task::parallel() scope value. In the source language a scope is a
// temporary whose destructor blocks until its joined children finish; Go
// has no destructors, so a Scope's join point is the explicit call to
// Wait. A typical top-level task body therefore reads:
//
//	task.Task(ctx).
//		Invoke("producer", produce).
//		Invoke("consumer", consume).
//		Wait()
//
// which mirrors task::task().invoke(...).invoke(...) followed by the
// implicit destructor join of the original.
package task

import (
	"context"
	"sync"
)

// TaskFunc is the body of an invoked task. Leaf task functions (Add,
// Mmap2Stream, a switch network node, ...) receive only the ctx they need
// for cancellation and diagnostics; they read from and write to whichever
// Stream, Mmap, or AsyncMmap endpoints their closure captured.
type TaskFunc func(ctx context.Context)

// IndexedTaskFunc is the body passed to InvokeN: i is this invocation's
// ordinal in [0, n).
type IndexedTaskFunc func(ctx context.Context, i int)

// Scope tracks the join-mode children spawned against it. Detach-mode
// children are reparented to the root scheduler at Invoke time and are no
// longer tracked by any Scope.
type Scope struct {
	ctx context.Context
	wg  sync.WaitGroup
	sem *Semaphore

	seqMu  sync.Mutex
	seqVal int
}

// WithLimit caps the number of s's children that may run concurrently at
// n, acquiring a shared Semaphore slot before each spawned goroutine
// starts its body and releasing it when the body returns. Returns s for
// chaining. Panics if n <= 0.
func (s *Scope) WithLimit(n int) *Scope {
	s.sem = NewSemaphore(n)
	return s
}

// Task creates a new scope rooted at ctx. Task and Parallel are equivalent
// constructors kept as separate names so a call site can say which kind
// of task graph node it's building; neither behaves differently from the
// other, and both return the same Scope type.
func Task(ctx context.Context) *Scope {
	return &Scope{ctx: ctx}
}

// Parallel is an alias for Task, kept because both names appear at call
// sites throughout the task graphs this runtime is built to run.
func Parallel(ctx context.Context) *Scope {
	return &Scope{ctx: ctx}
}

// Invoke spawns a single join-mode child running fn under label, and
// returns s so calls can be chained. The child is awaited by s.Wait.
func (s *Scope) Invoke(label string, fn TaskFunc) *Scope {
	return s.InvokeN(1, Join, label, func(ctx context.Context, _ int) { fn(ctx) })
}

// Detach spawns a single detach-mode child running fn under label. Detached
// children are never awaited by any scope; they run until they return on
// their own or the process exits. This is the right call for an
// AsyncMmap's backing service task or a long-running switch node.
func (s *Scope) Detach(label string, fn TaskFunc) *Scope {
	return s.InvokeN(1, Detach, label, func(ctx context.Context, _ int) { fn(ctx) })
}

// InvokeN spawns n children of fn, indexed 0..n-1, under the given Mode.
// Join-mode children are awaited by s.Wait; detach-mode children are not
// awaited by anyone and are reparented to the root scheduler for
// diagnostic purposes only.
func (s *Scope) InvokeN(n int, mode Mode, label string, fn IndexedTaskFunc) *Scope {
	if n <= 0 {
		abortContract(label, "InvokeN requires n > 0")
	}
	body := func(ctx context.Context, idx int) {
		if s.sem != nil {
			if err := s.sem.Acquire(ctx); err != nil {
				return
			}
			defer s.sem.Release()
		}
		fn(ctx, idx)
	}

	for i := 0; i < n; i++ {
		idx := i
		switch mode {
		case Join:
			s.wg.Add(1)
			spawn(s.ctx, label, idx, mode, func(ctx context.Context) {
				defer s.wg.Done()
				body(ctx, idx)
			})
		case Detach:
			spawn(s.ctx, label, idx, mode, func(ctx context.Context) {
				body(ctx, idx)
			})
		default:
			abortContract(label, "unknown Mode")
		}
	}
	return s
}

// Wait blocks until every join-mode child of s has returned. It is the Go
// stand-in for the original scope value's destructor.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Context returns the context.Context backing s, for task functions that
// need to spawn further scopes of their own against the same cancellation
// tree.
func (s *Scope) Context() context.Context {
	return s.ctx
}

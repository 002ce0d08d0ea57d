// Package task implements a task-level dataflow runtime: bounded streams
// carrying values with a sticky end-of-transmission marker, memory-mapped
// views over host buffers, an asynchronous memory-mapped port serviced by
// a background task, and a cooperative scheduler that wires task graphs
// together through explicit join or detach lifecycles.
//
// # Streams
//
// [Stream] is a bounded single-producer/single-consumer FIFO. Task
// functions never touch a Stream directly — they receive one of its two
// endpoints, [IStream] (read-only) or [OStream] (write-only), obtained by
// calling [Stream.R] and [Stream.W] exactly once each:
//
//	s := task.NewStream[int](8, "a")
//	r, w := s.R(), s.W()
//
// A stream ends when its producer calls [OStream.Close], which enqueues a
// sticky end-of-transmission token behind any values still queued.
// [IStream.Read] blocks for the next value and panics if it reaches EOT;
// [IStream.ReadDefault] instead substitutes a caller-supplied default.
// [WhileNotEOT] and [AllEOT] compose the EOT state of several streams for
// loop conditions, so a multi-input pipeline stage can loop on "while any
// (or all) of these operands still have more to give" without unrolling
// the per-stream checks by hand.
//
// [StreamBundle] groups several same-typed streams into one handle, for
// vectorized channels whose lane count is fixed at construction.
//
// # Memory views
//
// [Mmap] is a bounds-checked, cursor-advancing view over a Go slice,
// tagged [ReadOnly], [WriteOnly], [ReadWrite], or [Placeholder] to catch
// accesses a kernel argument was never supposed to make. [Vectorized]
// regroups a view into fixed-width lanes, and [Reinterpret] bit-casts a
// view to a different element type over the same backing storage without
// copying. [MmapArray] indexes an array of views
// positionally, wrapping around (with a warning, not a failure) if asked
// for more positions than it holds.
//
// [Mmap.Async] wraps a view behind five request/response streams serviced
// by a detached background task instead of being touched directly —
// [AsyncMmap] and [AsyncMmapPort].
//
// # Scheduling task graphs
//
// [Scope], created by [Task] or [Parallel], owns a set of child tasks and
// joins them together. Go has no destructors, so rather than joining its
// children implicitly when the enclosing statement finishes, a Scope here
// is joined by an explicit call to [Scope.Wait]:
//
//	task.Task(ctx).
//		Invoke("producer", produce).
//		Invoke("consumer", consume).
//		Wait()
//
// [Scope.Invoke], and [Scope.InvokeN] given [Join], spawn children awaited
// by Wait; [Scope.Detach], [Scope.InvokeN] given [Detach], and the
// [DetachTask] function spawn children that no
// scope ever waits on, appropriate for a service task meant to outlive
// every scope that depends on it. [Scope.WithLimit] bounds how many of a
// scope's children run concurrently via a [Semaphore]. [Scope.Seq]
// returns a per-scope counter for labeling successive invocations.
//
// Every blocking Stream and Mmap operation polls rather than parking on a
// channel, recording a short diagnostic message on every iteration via an
// internal yield call. A background watchdog goroutine watches a global
// progress counter; if any task is registered, Join or Detach mode alike,
// and the whole process goes an extended run of scans without any task
// recording progress, it raises a [DeadlockError], which the default
// handler logs through [Sink] and then panics with — the last-yield
// messages collected from every still-live task are the deadlock report.
// The watchdog makes no exception for Detach-mode tasks: a process whose
// only registered tasks are idle Detach-mode ones (an AsyncMmap service
// with nothing pending, say) is reported as deadlocked once the run of
// stagnant scans is long enough.
//
// # Diagnostics
//
// [Sink] is the pluggable diagnostic surface used throughout this
// package, backed by [log/slog] via [NewSlogSink]. [SetDefaultSink] lets
// tests capture diagnostics instead of letting them reach the process
// logger. [ContractViolation], [OutOfRangeAccess], and [DeadlockError] are
// the fatal error kinds this runtime raises; [TaskPanic] and [PanicError]
// attribute a recovered task panic to the task that caused it.
package task

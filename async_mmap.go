package task

import (
	"context"
	"fmt"
)

// asyncMmapWriteQueueDepth bounds how many writes may be committed to the
// backing store before their acknowledgements are drained from write_resp.
const asyncMmapWriteQueueDepth = 256

// AsyncMmap wraps an [Mmap] behind five streams — read_addr, read_data,
// write_addr, write_data, write_resp — serviced by a detached background
// task instead of being accessed directly. Direct indexing of an
// AsyncMmap is intentionally not exposed: every access must go through the
// request/response streams.
type AsyncMmap[T any] struct {
	name string
	mem  Mmap[T]

	readAddr  *Stream[int64]
	readData  *Stream[T]
	writeAddr *Stream[int64]
	writeData *Stream[T]
	writeResp *Stream[int64]
}

// AsyncMmapPort is the user-facing handle to an AsyncMmap: the five
// request/response stream endpoints a kernel task actually reads from and
// writes to.
type AsyncMmapPort[T any] struct {
	ReadAddr  OStream[int64]
	ReadData  IStream[T]
	WriteAddr OStream[int64]
	WriteData OStream[T]
	WriteResp IStream[int64]
}

// NewAsyncMmap builds an AsyncMmap over mem. capacity sizes each of the
// five backing streams. Call Schedule (or use [Mmap.Async], which does
// both steps) to start its service task.
func NewAsyncMmap[T any](mem Mmap[T], name string, capacity int) *AsyncMmap[T] {
	return &AsyncMmap[T]{
		name:      name,
		mem:       mem,
		readAddr:  NewStream[int64](capacity, name+".read_addr"),
		readData:  NewStream[T](capacity, name+".read_data"),
		writeAddr: NewStream[int64](capacity, name+".write_addr"),
		writeData: NewStream[T](capacity, name+".write_data"),
		writeResp: NewStream[int64](capacity, name+".write_resp"),
	}
}

// Port returns the user-facing stream endpoints. Call this exactly once;
// like any other Stream, attaching a second reader or writer to the same
// lane is a contract violation.
func (a *AsyncMmap[T]) Port() AsyncMmapPort[T] {
	return AsyncMmapPort[T]{
		ReadAddr:  a.readAddr.W(),
		ReadData:  a.readData.R(),
		WriteAddr: a.writeAddr.W(),
		WriteData: a.writeData.W(),
		WriteResp: a.writeResp.R(),
	}
}

// Schedule starts a.serve as a detached task on the root scheduler. The
// service task runs for the remainder of the process; nothing ever joins
// it, and it belongs to no Scope.
func (a *AsyncMmap[T]) Schedule() {
	DetachTask(a.name+".service", a.serve)
}

// Async wraps m as an AsyncMmap backed by capacity-deep streams, schedules
// its service task, and returns the port a kernel task uses. This is the
// common case; use [NewAsyncMmap] directly when the AsyncMmap value itself
// needs to be retained (e.g. tests inspecting mem after a run).
func (m Mmap[T]) Async(name string, capacity int) AsyncMmapPort[T] {
	am := NewAsyncMmap(m, name, capacity)
	am.Schedule()
	return am.Port()
}

// serve is the backing loop: a non-blocking poll over all five streams,
// holding at most one pending read request and one pending write request
// at a time. It never returns on its own — only ctx cancellation ends it —
// because a detached service task is expected to outlive every scope that
// depends on it.
func (a *AsyncMmap[T]) serve(ctx context.Context) {
	rAddr := a.readAddr.R()
	rData := a.readData.W()
	wAddr := a.writeAddr.R()
	wData := a.writeData.R()
	wResp := a.writeResp.W()

	var (
		pendingReadAddr  int64
		haveReadAddr     bool
		pendingWriteAddr int64
		pendingWriteVal  T
		haveWriteAddr    bool
		haveWriteVal     bool
		inFlight         int
	)

	checkBounds := func(addr int64) {
		// Address 0 skips this check regardless of mem's size; the
		// mem.At/Set call that follows still rejects it when mem is empty.
		if addr == 0 {
			return
		}
		size := int64(a.mem.Size())
		if addr < 0 || addr >= size {
			abortOutOfRange(a.name, addr, uint64(size))
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}

		progress := false

		if !haveReadAddr {
			if v, ok := rAddr.TryRead(); ok {
				pendingReadAddr = v
				haveReadAddr = true
				progress = true
			}
		}
		if haveReadAddr {
			checkBounds(pendingReadAddr)
			val := a.mem.At(int(pendingReadAddr))
			if rData.TryWrite(val) {
				haveReadAddr = false
				progress = true
			}
		}

		if !haveWriteAddr {
			if v, ok := wAddr.TryRead(); ok {
				pendingWriteAddr = v
				haveWriteAddr = true
				progress = true
			}
		}
		if !haveWriteVal {
			if v, ok := wData.TryRead(); ok {
				pendingWriteVal = v
				haveWriteVal = true
				progress = true
			}
		}

		if inFlight < asyncMmapWriteQueueDepth && haveWriteAddr && haveWriteVal {
			checkBounds(pendingWriteAddr)
			a.mem.Set(int(pendingWriteAddr), pendingWriteVal)
			inFlight++
			haveWriteAddr = false
			haveWriteVal = false
			progress = true
		} else if inFlight > 0 {
			// The -1 convention: a response of n denotes n+1 completed
			// writes, so a lone completed write acks 0, not 1.
			if wResp.TryWrite(int64(inFlight - 1)) {
				inFlight = 0
				progress = true
			}
		}

		if !progress {
			yield(ctx, fmt.Sprintf("async-mmap %q idle", a.name))
		}
	}
}

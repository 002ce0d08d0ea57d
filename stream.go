package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Stream is a bounded, single-producer/single-consumer FIFO of tokens,
// each either a value of type T or a sticky end-of-transmission marker.
// Once a producer closes a Stream, the EOT marker becomes the permanent
// tail of the queue: it can be observed any number of times but it is
// never a value a Read can return.
//
// A Stream is not used directly by task bodies. Splitting it with R and W
// yields the read-only and write-only endpoints task functions actually
// receive, which is how the runtime enforces the single-producer/
// single-consumer contract: attaching a second reader or writer is a
// [ContractViolation].
type Stream[T any] struct {
	id       uuid.UUID
	name     string
	capacity int

	mu  sync.Mutex
	buf []streamToken[T]

	producerAttached atomic.Bool
	consumerAttached atomic.Bool
}

// NewStream constructs a Stream with the given capacity C and a debug name
// used only in diagnostics. Panics if capacity <= 0.
func NewStream[T any](capacity int, name string) *Stream[T] {
	if capacity <= 0 {
		panic("task: stream capacity must be positive")
	}
	return &Stream[T]{id: uuid.New(), name: name, capacity: capacity}
}

// R returns the read endpoint of s. Calling R twice on the same Stream is
// a contract violation.
func (s *Stream[T]) R() IStream[T] {
	if !s.consumerAttached.CompareAndSwap(false, true) {
		abortContract(s.name, "a second consumer attached to this stream")
	}
	return IStream[T]{s: s}
}

// W returns the write endpoint of s. Calling W twice on the same Stream is
// a contract violation.
func (s *Stream[T]) W() OStream[T] {
	if !s.producerAttached.CompareAndSwap(false, true) {
		abortContract(s.name, "a second producer attached to this stream")
	}
	return OStream[T]{s: s}
}

func (s *Stream[T]) peekHead() (streamToken[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 {
		return streamToken[T]{}, false
	}
	return s.buf[0], true
}

func (s *Stream[T]) tryWrite(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.buf); n > 0 && s.buf[n-1].tag == tagEOT {
		abortContract(s.name, "write after close")
	}
	if len(s.buf) >= s.capacity {
		return false
	}
	s.buf = append(s.buf, streamToken[T]{tag: tagValue, payload: v})
	progressed()
	return true
}

func (s *Stream[T]) write(ctx context.Context, v T) {
	for {
		if s.tryWrite(v) {
			return
		}
		yield(ctx, fmt.Sprintf("blocked writing to stream %q (full)", s.name))
	}
}

func (s *Stream[T]) tryClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.buf); n > 0 && s.buf[n-1].tag == tagEOT {
		return true // idempotent: already closing/closed
	}
	if len(s.buf) >= s.capacity {
		return false
	}
	s.buf = append(s.buf, streamToken[T]{tag: tagEOT})
	progressed()
	return true
}

func (s *Stream[T]) close(ctx context.Context) {
	for {
		if s.tryClose() {
			return
		}
		yield(ctx, fmt.Sprintf("blocked closing stream %q (full)", s.name))
	}
}

func (s *Stream[T]) tryRead() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 || s.buf[0].tag == tagEOT {
		var zero T
		return zero, false
	}
	v := s.buf[0].payload
	s.buf = s.buf[1:]
	progressed()
	return v, true
}

func (s *Stream[T]) read(ctx context.Context) T {
	for {
		tok, ok := s.peekHead()
		if !ok {
			yield(ctx, fmt.Sprintf("blocked reading from stream %q (empty)", s.name))
			continue
		}
		if tok.tag == tagEOT {
			abortContract(s.name, "read() called at end-of-transmission")
		}
		if v, ok := s.tryRead(); ok {
			return v
		}
	}
}

func (s *Stream[T]) readDefault(ctx context.Context, def T) T {
	for {
		tok, ok := s.peekHead()
		if !ok {
			yield(ctx, fmt.Sprintf("blocked reading from stream %q (empty)", s.name))
			continue
		}
		if tok.tag == tagEOT {
			return def
		}
		if v, ok := s.tryRead(); ok {
			return v
		}
	}
}

func (s *Stream[T]) peek() (T, bool) {
	tok, ok := s.peekHead()
	if !ok || tok.tag != tagValue {
		var zero T
		return zero, false
	}
	return tok.payload, true
}

func (s *Stream[T]) tryEOT() (ok bool, isEOT bool) {
	tok, present := s.peekHead()
	if !present {
		return false, false
	}
	return true, tok.tag == tagEOT
}

func (s *Stream[T]) eot(ctx context.Context) (isEOT bool, valid bool) {
	for {
		ok, is := s.tryEOT()
		if ok {
			return is, true
		}
		select {
		case <-ctx.Done():
			return false, false
		default:
		}
		yield(ctx, fmt.Sprintf("blocked waiting for eot on stream %q", s.name))
	}
}

func (s *Stream[T]) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf) == 0
}

func (s *Stream[T]) full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf) >= s.capacity
}

// IStream is the read-only endpoint of a Stream, the type task functions
// declare when they only consume from it.
type IStream[T any] struct {
	s *Stream[T]
}

// Name returns the stream's debug name.
func (r IStream[T]) Name() string { return r.s.name }

// TryRead returns the next value without blocking. ok is false if the
// stream is empty or the head is the EOT marker.
func (r IStream[T]) TryRead() (v T, ok bool) { return r.s.tryRead() }

// Read blocks until a value is available and returns it. It is a
// programming error — reported as a [ContractViolation] — to call Read
// when the stream has reached end-of-transmission; use ReadDefault or
// check TryEOT/EOT first.
func (r IStream[T]) Read(ctx context.Context) T { return r.s.read(ctx) }

// ReadDefault blocks until the head is determinable, then returns the next
// value, or def if the stream has reached end-of-transmission.
func (r IStream[T]) ReadDefault(ctx context.Context, def T) T { return r.s.readDefault(ctx, def) }

// Peek returns the head value without consuming it, if the head is a
// value token.
func (r IStream[T]) Peek() (T, bool) { return r.s.peek() }

// TryEOT reports, without blocking, whether the head is currently
// determinable (ok) and if so whether it is the EOT marker (isEOT).
func (r IStream[T]) TryEOT() (ok bool, isEOT bool) { return r.s.tryEOT() }

// EOT blocks until the head is determinable, then reports whether it is
// the EOT marker. valid is false only if ctx was canceled before the head
// became determinable.
func (r IStream[T]) EOT(ctx context.Context) (isEOT bool, valid bool) { return r.s.eot(ctx) }

// Empty reports whether the stream currently holds no tokens at all.
func (r IStream[T]) Empty() bool { return r.s.empty() }

// OStream is the write-only endpoint of a Stream, the type task functions
// declare when they only produce into it.
type OStream[T any] struct {
	s *Stream[T]
}

// Name returns the stream's debug name.
func (w OStream[T]) Name() string { return w.s.name }

// TryWrite enqueues v without blocking, returning false if the stream is
// full. Writing after Close is a [ContractViolation].
func (w OStream[T]) TryWrite(v T) bool { return w.s.tryWrite(v) }

// Write blocks until there is room, then enqueues v.
func (w OStream[T]) Write(ctx context.Context, v T) { w.s.write(ctx, v) }

// Close enqueues the sticky EOT marker, blocking until there is room for
// it. Close is idempotent: calling it again is a no-op.
func (w OStream[T]) Close(ctx context.Context) { w.s.close(ctx) }

// Full reports whether the stream currently has no room for another
// token.
func (w OStream[T]) Full() bool { return w.s.full() }

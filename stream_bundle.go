package task

import (
	"context"
	"strconv"
)

// StreamBundle groups N independently-flowing Streams of the same element
// and capacity type under one handle, for a vectorized channel built out
// of per-lane streams. As with [Vec], N is fixed at construction time
// rather than being a type parameter — Go has no const-generic way to
// carry a lane count in the type itself.
type StreamBundle[T any] struct {
	lanes []*Stream[T]
}

// NewStreamBundle constructs a bundle of n independent Streams, each with
// the given capacity, named "<name>[i]" for diagnostics. Panics if n <= 0.
func NewStreamBundle[T any](n, capacity int, name string) *StreamBundle[T] {
	if n <= 0 {
		panic("task: stream bundle width must be positive")
	}
	b := &StreamBundle[T]{lanes: make([]*Stream[T], n)}
	for i := range b.lanes {
		b.lanes[i] = NewStream[T](capacity, laneDebugName(name, i))
	}
	return b
}

func laneDebugName(name string, i int) string {
	if name == "" {
		return ""
	}
	return name + "[" + strconv.Itoa(i) + "]"
}

// Width returns the bundle's lane count, N.
func (b *StreamBundle[T]) Width() int { return len(b.lanes) }

// R returns the read endpoint bundle. Calling R twice is a contract
// violation, enforced per-lane by the underlying Streams.
func (b *StreamBundle[T]) R() IStreamBundle[T] {
	out := make([]IStream[T], len(b.lanes))
	for i, s := range b.lanes {
		out[i] = s.R()
	}
	return IStreamBundle[T]{lanes: out}
}

// W returns the write endpoint bundle. Calling W twice is a contract
// violation, enforced per-lane by the underlying Streams.
func (b *StreamBundle[T]) W() OStreamBundle[T] {
	out := make([]OStream[T], len(b.lanes))
	for i, s := range b.lanes {
		out[i] = s.W()
	}
	return OStreamBundle[T]{lanes: out}
}

// IStreamBundle is the read-only endpoint of a StreamBundle.
type IStreamBundle[T any] struct {
	lanes []IStream[T]
}

// Width returns the bundle's lane count.
func (b IStreamBundle[T]) Width() int { return len(b.lanes) }

// Lane returns the read endpoint for lane i.
func (b IStreamBundle[T]) Lane(i int) IStream[T] { return b.lanes[i] }

// ReadAll blocks on every lane's own Read, in lane order, and returns one
// value per lane as a Width()-length slice. Used by vectorized consumers
// that want a whole bundle's worth of values as a single unit rather than
// indexing lanes one at a time.
func (b IStreamBundle[T]) ReadAll(ctx context.Context) []T {
	out := make([]T, len(b.lanes))
	for i, r := range b.lanes {
		out[i] = r.Read(ctx)
	}
	return out
}

// OStreamBundle is the write-only endpoint of a StreamBundle.
type OStreamBundle[T any] struct {
	lanes []OStream[T]
}

// Width returns the bundle's lane count.
func (b OStreamBundle[T]) Width() int { return len(b.lanes) }

// Lane returns the write endpoint for lane i.
func (b OStreamBundle[T]) Lane(i int) OStream[T] { return b.lanes[i] }

// WriteAll blocks on every lane's own Write, in lane order, writing one
// value per lane from vs. Panics if len(vs) != Width(). The counterpart to
// [IStreamBundle.ReadAll] for vectorized producers that emit a whole
// bundle's worth of values as a single unit.
func (b OStreamBundle[T]) WriteAll(ctx context.Context, vs []T) {
	if len(vs) != len(b.lanes) {
		panic("task: WriteAll value count must match bundle width")
	}
	for i, w := range b.lanes {
		w.Write(ctx, vs[i])
	}
}

// CloseAll closes every lane.
func (b OStreamBundle[T]) CloseAll(ctx context.Context) {
	for _, w := range b.lanes {
		w.Close(ctx)
	}
}

package task

import "sync"

// MmapArray is a fixed-length array of S independent Mmap[T] views,
// accessed positionally: each call to Next hands out the next view in
// round-robin order. S is fixed at construction, again a runtime value
// rather than a type parameter for the reasons documented on [Vec].
//
// Overrunning the array (asking for more positions than it has) is not
// fatal: it warns and wraps around via modulo rather than aborting.
type MmapArray[T any] struct {
	name  string
	views []Mmap[T]

	mu  sync.Mutex
	pos int
}

// NewMmapArray wraps views as a positional MmapArray.
func NewMmapArray[T any](views []Mmap[T], name string) *MmapArray[T] {
	if len(views) == 0 {
		panic("task: MmapArray requires at least one view")
	}
	return &MmapArray[T]{name: name, views: views}
}

// Len returns S, the number of views in the array.
func (a *MmapArray[T]) Len() int { return len(a.views) }

// Next returns the next view in round-robin order, advancing the internal
// cursor. Warns (does not abort) via the default sink on every call once
// the cursor has passed Len.
func (a *MmapArray[T]) Next() Mmap[T] {
	a.mu.Lock()
	idx := a.pos
	a.pos++
	a.mu.Unlock()
	return a.at(idx)
}

// At returns the view at logical position i, wrapping modulo Len. Warns
// via the default sink if i overruns the array.
func (a *MmapArray[T]) At(i int) Mmap[T] {
	return a.at(i)
}

func (a *MmapArray[T]) at(i int) Mmap[T] {
	if i >= len(a.views) {
		defaultSink.Log(SeverityWarning, "positional mmap access overran array, wrapping",
			"name", a.name, "index", i, "length", len(a.views))
	}
	return a.views[i%len(a.views)]
}

// Slice returns the sub-array [offset, offset+length) of a, sharing the
// same underlying views.
func (a *MmapArray[T]) Slice(offset, length int) *MmapArray[T] {
	if offset < 0 || length <= 0 || offset+length > len(a.views) {
		abortOutOfRange(a.name, int64(offset), uint64(len(a.views)))
	}
	return NewMmapArray[T](a.views[offset:offset+length], a.name)
}

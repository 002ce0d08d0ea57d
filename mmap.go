package task

import "unsafe"

// AccessTag records how a task function is permitted to use an Mmap view:
// a placeholder argument slot, read-only, write-only, or read-write,
// checked at access time rather than at the type level.
type AccessTag int

const (
	// Placeholder marks an Mmap whose backing region exists only to
	// reserve an argument slot; any access is a contract violation.
	Placeholder AccessTag = iota
	// ReadOnly permits At but not Set.
	ReadOnly
	// WriteOnly permits Set but not At.
	WriteOnly
	// ReadWrite permits both.
	ReadWrite
)

// Mmap is a bounds-checked view over a contiguous memory-mapped region,
// the runtime's model of a kernel argument backed by host memory. base is
// a mutable cursor into data, advanced by Inc/Dec without reallocating.
type Mmap[T any] struct {
	tag  AccessTag
	name string
	data []T
	base int
}

// NewMmap wraps data as an Mmap view tagged with the given access mode.
func NewMmap[T any](data []T, name string, tag AccessTag) Mmap[T] {
	return Mmap[T]{tag: tag, name: name, data: data}
}

// Size returns the number of elements visible from the current cursor to
// the end of the backing region.
func (m Mmap[T]) Size() int {
	return len(m.data) - m.base
}

// Tag returns the view's access mode.
func (m Mmap[T]) Tag() AccessTag { return m.tag }

func (m Mmap[T]) checkIndex(i int) int {
	idx := m.base + i
	if idx < 0 || idx >= len(m.data) {
		abortOutOfRange(m.name, int64(i), uint64(m.Size()))
	}
	return idx
}

// At returns the element at offset i from the cursor. Panics with an
// [OutOfRangeAccess] if out of bounds, or a [ContractViolation] if the
// view is not tagged ReadOnly or ReadWrite.
func (m Mmap[T]) At(i int) T {
	if m.tag != ReadOnly && m.tag != ReadWrite {
		abortContract(m.name, "read from a non-readable Mmap view")
	}
	return m.data[m.checkIndex(i)]
}

// Set assigns the element at offset i from the cursor. Panics with an
// [OutOfRangeAccess] if out of bounds, or a [ContractViolation] if the
// view is not tagged WriteOnly or ReadWrite.
func (m Mmap[T]) Set(i int, v T) {
	if m.tag != WriteOnly && m.tag != ReadWrite {
		abortContract(m.name, "write to a non-writable Mmap view")
	}
	m.data[m.checkIndex(i)] = v
}

// Inc returns a copy of m with its cursor advanced by n elements. n may be
// negative.
func (m Mmap[T]) Inc(n int) Mmap[T] {
	return Mmap[T]{tag: m.tag, name: m.name, data: m.data, base: m.base + n}
}

// Dec returns a copy of m with its cursor moved back by n elements.
func (m Mmap[T]) Dec(n int) Mmap[T] {
	return m.Inc(-n)
}

// Vectorized groups m's remaining elements into lanes-wide [Vec] values,
// the way a kernel widens a scalar mmap into a vector-width burst. Each
// resulting Vec's lane slice is a reslice of m's own backing array rather
// than a copy, so a Set through the vectorized view is visible through m
// and vice versa — the same zero-copy aliasing [Reinterpret] gives a
// bit-cast view, done here by subslicing since Vec's own representation
// (a slice header) is not byte-compatible with a run of raw T values.
// Panics with a [ContractViolation] if Size is not a multiple of lanes.
//
// This is a free function rather than an (Mmap[T]).Vectorized[N] method:
// Go methods cannot introduce type parameters beyond the receiver's own,
// so a transform that changes T requires a standalone generic function.
func Vectorized[T any](m Mmap[T], lanes int) Mmap[Vec[T]] {
	if lanes <= 0 {
		panic("task: Vectorized lane width must be positive")
	}
	avail := m.Size()
	if avail%lanes != 0 {
		abortContract(m.name, "Vectorized: size not divisible by lane width")
	}
	groups := avail / lanes
	rest := m.data[m.base:]
	out := make([]Vec[T], groups)
	for g := 0; g < groups; g++ {
		lo, hi := g*lanes, g*lanes+lanes
		out[g] = Vec[T]{lanes: rest[lo:hi:hi]}
	}
	return Mmap[Vec[T]]{tag: m.tag, name: m.name, data: out}
}

// Reinterpret bit-casts m's remaining bytes as a zero-copy view of U.
// Panics with a [ContractViolation] if the remaining byte length is not a
// multiple of U's size.
//
// Like Vectorized, this is a free function: changing the element type
// requires a type parameter the receiver does not already carry.
func Reinterpret[U, T any](m Mmap[T]) Mmap[U] {
	var tZero T
	var uZero U
	tSize := int(unsafe.Sizeof(tZero))
	uSize := int(unsafe.Sizeof(uZero))
	if tSize == 0 || uSize == 0 {
		abortContract(m.name, "Reinterpret: zero-sized element type")
	}
	totalBytes := m.Size() * tSize
	if totalBytes%uSize != 0 {
		abortContract(m.name, "Reinterpret: byte size not divisible by target element size")
	}
	if m.Size() == 0 {
		return Mmap[U]{tag: m.tag, name: m.name}
	}
	newLen := totalBytes / uSize
	ptr := unsafe.Pointer(&m.data[m.base])
	newData := unsafe.Slice((*U)(ptr), newLen)
	return Mmap[U]{tag: m.tag, name: m.name, data: newData}
}

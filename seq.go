package task

// Seq is a per-scope counter that expands to an increasing integer on each
// access, used to give successive invocations of the same task function
// distinct ordinals (e.g. labeling pipeline stages 0, 1, 2, ... without the
// caller hand-counting).
type Seq struct {
	s *Scope
}

// Seq returns the sequence accessor bound to s. Every call to Next on the
// returned value advances the same counter, regardless of which goroutine
// calls it.
func (s *Scope) Seq() *Seq {
	return &Seq{s: s}
}

// Next returns the next value in the sequence, starting at 0.
func (q *Seq) Next() int {
	q.s.seqMu.Lock()
	defer q.s.seqMu.Unlock()
	v := q.s.seqVal
	q.s.seqVal++
	return v
}

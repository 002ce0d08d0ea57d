package task

// EOTAware is satisfied by any stream read endpoint, and is the minimal
// surface the WhileNotEOT helpers need. It exists so control-flow helpers
// can be written once and used across differently-typed streams.
type EOTAware interface {
	TryEOT() (ok bool, isEOT bool)
}

// WhileNotEOT polls every stream in streams and reports whether all of
// them currently have a value token ready — a stream whose head is not
// yet determinable, or that is at EOT, makes it report false. This
// variadic form covers the one-, two-, and three-stream cases a
// multi-input pipeline stage typically loops over:
//
//	for WhileNotEOT(a, b) {
//	    out.Write(ctx, a.Read(ctx) + b.Read(ctx))
//	}
//
// The loop body above only runs when both a and b have a value ready in
// the same poll, so it never reads past one operand's EOT waiting on the
// other.
func WhileNotEOT(streams ...EOTAware) bool {
	for _, s := range streams {
		ok, isEOT := s.TryEOT()
		if !ok || isEOT {
			return false
		}
	}
	return true
}

// AllEOT reports whether every stream in streams is currently known to
// have reached end-of-transmission. Used where a loop should continue
// until ALL operands, not just one, are drained.
func AllEOT(streams ...EOTAware) bool {
	for _, s := range streams {
		ok, isEOT := s.TryEOT()
		if !ok || !isEOT {
			return false
		}
	}
	return true
}

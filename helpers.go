package task

import "context"

// InvokeEach spawns one child per item in items under the given Mode,
// indexing into items by the child's ordinal. It is a thin convenience
// wrapper over Scope.InvokeN for the common case of fanning a task body
// out across a slice — a vector's lanes, a switch's ports, an MmapArray's
// positions.
func InvokeEach[T any](s *Scope, mode Mode, label string, items []T, fn func(ctx context.Context, item T)) *Scope {
	return s.InvokeN(len(items), mode, label, func(ctx context.Context, i int) {
		fn(ctx, items[i])
	})
}

// InvokeMap spawns one join-mode child per item in items, collects each
// child's result into a same-order slice, waits for all of them, and
// returns the results. Task functions in this runtime otherwise have no
// return value (they communicate only through streams and mmaps), so
// InvokeMap is the escape hatch for tests and harness code that need a
// synchronous, indexable result out of a fan-out.
func InvokeMap[T, R any](s *Scope, label string, items []T, fn func(ctx context.Context, item T) R) []R {
	results := make([]R, len(items))
	s.InvokeN(len(items), Join, label, func(ctx context.Context, i int) {
		results[i] = fn(ctx, items[i])
	}).Wait()
	return results
}

package task

import "github.com/google/uuid"

// Mode selects whether an invoked child blocks its enclosing [Scope]'s
// Wait, or is orphaned to the root scheduler for the remainder of the
// process.
type Mode int

const (
	// Join attaches the child to the innermost enclosing scope: the
	// scope's Wait does not return until the child has finished.
	Join Mode = iota
	// Detach orphans the child to the root scheduler. Detached children
	// are never awaited and are useful for infinite service loops, such
	// as an AsyncMmap's backing task or a switch network node.
	Detach
)

func (m Mode) String() string {
	if m == Detach {
		return "detach"
	}
	return "join"
}

// TaskInfo is diagnostic metadata about a spawned task, surfaced to the
// [Sink] and to deadlock reports.
type TaskInfo struct {
	// ID uniquely identifies this task instance, disambiguating repeated
	// invocations that share a Label.
	ID uuid.UUID
	// Label is the human-readable name attached at Invoke time, used only
	// for diagnostics.
	Label string
	// Index is the ordinal of this invocation within an InvokeN call
	// (always 0 for a single Invoke).
	Index int
	Mode  Mode
}

// taskLifecycle is the subset of the state machine described by the
// TaskHandle entry of the data model: ready, running, blocked, finished.
// Exactly one finished transition is permitted per handle; the transition
// out of finished is forbidden and is not exposed as an operation.
type taskLifecycle int32

const (
	lifecycleReady taskLifecycle = iota
	lifecycleRunning
	lifecycleBlocked
	lifecycleFinished
)

package task

import (
	"errors"
	"fmt"
)

// TaskPanic wraps a [*PanicError] together with the [TaskInfo] of the task
// that produced it, so a crash report can say which task failed and not
// just how. The scheduler attaches one of these to every unrecovered task
// panic before letting it propagate.
type TaskPanic struct {
	Task  TaskInfo
	Cause *PanicError
}

func (e *TaskPanic) Error() string {
	return fmt.Sprintf("task %q (index %d) panicked: %v", e.Task.Label, e.Task.Index, e.Cause)
}

func (e *TaskPanic) Unwrap() error {
	return e.Cause
}

// IsTaskPanic reports whether err (or any error in its chain) is a
// [*TaskPanic].
func IsTaskPanic(err error) bool {
	if err == nil {
		return false
	}
	var tp *TaskPanic
	return errors.As(err, &tp)
}

// TaskOf extracts the [TaskInfo] from the first [*TaskPanic] in err's
// chain. Returns false if none is found.
func TaskOf(err error) (TaskInfo, bool) {
	if err == nil {
		return TaskInfo{}, false
	}
	var tp *TaskPanic
	if errors.As(err, &tp) {
		return tp.Task, true
	}
	return TaskInfo{}, false
}

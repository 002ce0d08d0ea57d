package task

import (
	"fmt"

	"github.com/pkg/errors"
)

// ContractViolation reports a fatal programming error detected by the
// runtime: a second producer/consumer attaching to a stream, a write after
// close, a read past end-of-transmission, a bad mmap reinterpretation, or
// an Mmap access its AccessTag does not permit. (An AsyncMmap exposes no
// direct access at all, so there is nothing of that kind to report.)
// Contract violations are always fatal — the runtime does not attempt to
// retry or recover from them.
type ContractViolation struct {
	// StreamName is the debug name of the offending stream, when known.
	StreamName string
	Reason     string
	cause      error
}

func (e *ContractViolation) Error() string {
	if e.StreamName != "" {
		return fmt.Sprintf("task: contract violation on stream %q: %s", e.StreamName, e.Reason)
	}
	return fmt.Sprintf("task: contract violation: %s", e.Reason)
}

func (e *ContractViolation) Unwrap() error { return e.cause }

func newContractViolation(streamName, reason string) *ContractViolation {
	return &ContractViolation{
		StreamName: streamName,
		Reason:     reason,
		cause:      errors.New(reason),
	}
}

// OutOfRangeAccess reports a memory access outside [0, size): an
// async-mmap address, an Mmap index, or an MmapArray slice. The async-mmap
// bounds check lets address 0 through regardless of size, preserved
// exactly as observed in the source this behavior was ported from,
// deliberate or not; the Mmap access behind it still rejects address 0
// when the view is empty.
type OutOfRangeAccess struct {
	Addr int64
	Size uint64
}

func (e *OutOfRangeAccess) Error() string {
	return fmt.Sprintf("task: address %d out of range [0, %d)", e.Addr, e.Size)
}

// DeadlockError is raised by the scheduler's watchdog when the ready queue
// makes no progress over a bounded number of scans. YieldMessages maps each
// still-live task's diagnostic label to the last message it passed to
// yield.
type DeadlockError struct {
	YieldMessages map[string]string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("task: deadlock detected, %d task(s) blocked", len(e.YieldMessages))
}

// abortContract raises a ContractViolation through the default sink and
// panics with it. All fatal conditions in this runtime abort by panicking;
// callers at process boundaries (cmd drivers, test harnesses) decide
// whether to recover or let the process crash.
func abortContract(streamName, reason string) {
	cv := newContractViolation(streamName, reason)
	defaultSink.Log(SeverityError, "contract violation", "stream", streamName, "reason", reason)
	panic(cv)
}

func abortOutOfRange(streamName string, addr int64, size uint64) {
	oor := &OutOfRangeAccess{Addr: addr, Size: size}
	defaultSink.Log(SeverityError, "out-of-range memory access", "stream", streamName, "addr", addr, "size", size)
	panic(oor)
}

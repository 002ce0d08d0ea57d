package task_test

import (
	"context"
	"sync"

	task "github.com/baxromumarov/taskflow"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("deadlock detection", func() {
	It("reports every blocked task's last yield message once no task makes progress", func() {
		var mu sync.Mutex
		var caught *task.DeadlockError

		task.SetDeadlockHandler(func(err *task.DeadlockError) {
			mu.Lock()
			defer mu.Unlock()
			if caught == nil {
				caught = err
			}
		})
		// This spec deliberately leaves two tasks permanently blocked (a
		// detached task has no cancellation path in this runtime, by
		// design — see DESIGN.md). Left on the default handler, they would
		// keep re-tripping the watchdog and aborting the whole test
		// binary for the remainder of the run, so cleanup swaps in a
		// silent handler rather than restoring the default.
		DeferCleanup(func() { task.SetDeadlockHandler(func(*task.DeadlockError) {}) })

		s1 := task.NewStream[int](1, "deadlock.s1")
		s2 := task.NewStream[int](1, "deadlock.s2")

		// Neither task ever writes what the other reads: both block
		// forever, and nothing in the process makes progress.
		task.Task(context.Background()).
			Detach("waits-on-s1", func(ctx context.Context) { s1.R().Read(ctx) }).
			Detach("waits-on-s2", func(ctx context.Context) { s2.R().Read(ctx) })

		Eventually(func() *task.DeadlockError {
			mu.Lock()
			defer mu.Unlock()
			return caught
		}, "3s", "10ms").ShouldNot(BeNil())

		mu.Lock()
		defer mu.Unlock()
		Expect(len(caught.YieldMessages)).To(BeNumerically(">=", 2))
	})
})

package task_test

import (
	task "github.com/baxromumarov/taskflow"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("mmap reinterpret", func() {
	It("bit-casts without copying when the byte length divides evenly", func() {
		backing := []int32{1, 2, 3, 4}
		m := task.NewMmap(backing, "reinterp", task.ReadWrite)

		wide := task.Reinterpret[int64](m)
		Expect(wide.Size()).To(Equal(2))

		// A write through the reinterpreted view is visible through the
		// original one, proving this is a view over the same bytes and
		// not a copy.
		wide.Set(0, -1)
		Expect(backing[0]).NotTo(Equal(int32(1)))
	})

	It("aborts with a contract violation when the byte length does not divide evenly", func() {
		backing := make([]byte, 3)
		m := task.NewMmap(backing, "odd-bytes", task.ReadOnly)

		Expect(func() { task.Reinterpret[int32](m) }).To(PanicWith(BeAssignableToTypeOf(&task.ContractViolation{})))
	})
})

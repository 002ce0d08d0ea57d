package task_test

import (
	"context"

	task "github.com/baxromumarov/taskflow"
	"github.com/baxromumarov/taskflow/examples/vadd"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("vector add", func() {
	It("sums corresponding elements of two mmaps into a third", func() {
		const n = 32
		a := make([]float32, n)
		b := make([]float32, n)
		c := make([]float32, n)
		for i := range a {
			a[i] = float32(i)
			b[i] = float32(n - i)
		}

		vadd.VecAdd(context.Background(),
			task.NewMmap(a, "a", task.ReadOnly),
			task.NewMmap(b, "b", task.ReadOnly),
			task.NewMmap(c, "c", task.WriteOnly),
			n,
		)

		for i := range c {
			Expect(c[i]).To(Equal(a[i] + b[i]))
		}
	})
})

package task_test

import (
	"context"

	task "github.com/baxromumarov/taskflow"
	"github.com/baxromumarov/taskflow/examples/jacobi"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stencilSweep computes one 3-point average pass over row the same way
// jacobi.Stencil does (clamping at the edges by reusing the boundary
// element as its own neighbor), so the scenario test can check the
// multi-sweep pipeline's output against an independently computed value
// rather than a loose bound.
func stencilSweep(row []float32) []float32 {
	out := make([]float32, len(row))
	for i := range row {
		left, right := row[i], row[i]
		if i > 0 {
			left = row[i-1]
		}
		if i < len(row)-1 {
			right = row[i+1]
		}
		out[i] = (left + row[i] + right) / 3
	}
	return out
}

var _ = Describe("stencil EOT propagation", func() {
	It("propagates end-of-transmission through every stage of a multi-sweep pipeline", func() {
		in := []float32{1, 2, 3, 4, 5, 6, 7, 8}
		out := make([]float32, len(in))

		want := append([]float32(nil), in...)
		for i := 0; i < 4; i++ {
			want = stencilSweep(want)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			jacobi.Jacobi(context.Background(),
				task.NewMmap(in, "in", task.ReadOnly),
				task.NewMmap(out, "out", task.WriteOnly),
				len(in), 4,
			)
		}()

		Eventually(done, "2s").Should(BeClosed())
		for i, v := range out {
			Expect(v).To(BeNumerically("~", want[i], 1e-5))
		}
	})

	It("sums P's output with a one-step delay across a two-task P->Q pipeline", func() {
		s := task.NewStream[float32](6, "delay-sum.pq")
		out := task.NewStream[float32](6, "delay-sum.out")

		done := make(chan struct{})
		go func() {
			defer close(done)
			task.Task(context.Background()).
				Invoke("P", func(ctx context.Context) {
					w := s.W()
					for _, v := range []float32{1, 2, 3, 4, 5} {
						w.Write(ctx, v)
					}
					w.Close(ctx)
				}).
				Invoke("Q", func(ctx context.Context) {
					jacobi.DelaySum(ctx, s.R(), out.W())
				}).
				Wait()
		}()

		Eventually(done, "2s").Should(BeClosed())

		r := out.R()
		ctx := context.Background()
		want := []float32{1, 3, 5, 7, 9}
		for _, w := range want {
			Expect(r.Read(ctx)).To(Equal(w))
		}
		isEOT, valid := r.EOT(ctx)
		Expect(valid).To(BeTrue())
		Expect(isEOT).To(BeTrue())
	})
})

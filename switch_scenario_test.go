package task_test

import (
	"context"

	"github.com/baxromumarov/taskflow/examples/network"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("2x2 switch", func() {
	It("routes packets to the output matching their address parity", func() {
		in0 := []network.Pkt{{Addr: 4, Payload: 1}, {Addr: 7, Payload: 2}}
		in1 := []network.Pkt{{Addr: 8, Payload: 3}}

		out0, out1 := network.Run(context.Background(), in0, in1, 4)

		Expect(out0).To(ConsistOf(network.Pkt{Addr: 4, Payload: 1}, network.Pkt{Addr: 8, Payload: 3}))
		Expect(out1).To(ConsistOf(network.Pkt{Addr: 7, Payload: 2}))
	})
})

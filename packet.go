package task

import "fmt"

// Packet pairs an address with a payload, the wire shape a switch network
// node routes. AsyncMmap does not use it: its address and data travel on
// separate streams.
type Packet[Addr, Payload any] struct {
	Addr    Addr
	Payload Payload
}

// NewPacket constructs a Packet from its two fields.
func NewPacket[Addr, Payload any](addr Addr, payload Payload) Packet[Addr, Payload] {
	return Packet[Addr, Payload]{Addr: addr, Payload: payload}
}

func (p Packet[Addr, Payload]) String() string {
	return fmt.Sprintf("packet{addr:%v, payload:%v}", p.Addr, p.Payload)
}

package f1telem

import "github.com/heyvito/f1telem/proto"

// PacketHandler receives every packet decoded by a Server. The same Packet
// value is shared among all handlers, which must not modify it. Handlers are
// invoked on the routine that received the datagram, and must not block.
type PacketHandler interface {
	HandlePacket(p *proto.Packet)
}

// PacketHandlerFunc adapts an ordinary function into a PacketHandler.
type PacketHandlerFunc func(p *proto.Packet)

func (f PacketHandlerFunc) HandlePacket(p *proto.Packet) { f(p) }

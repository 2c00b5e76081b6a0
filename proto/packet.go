package proto

// Packet contains a Header and the Payload following it.
type Packet struct {
	Header  Header
	Payload Payload
}

// Pkt returns a new Packet with the provided header and payload. The
// header's PacketID is replaced by the payload's.
func Pkt(header Header, payload Payload) *Packet {
	header.PacketID = payload.PacketID()
	return &Packet{Header: header, Payload: payload}
}

func (p *Packet) RequiredSize() int {
	return HeaderSize + p.Payload.RequiredSize()
}

func (p *Packet) Encode(into []byte) {
	newWriter(into).
		encoder(p.Header).
		encoder(p.Payload)
}

// validator is implemented by payloads that may hold values that cannot be
// written to the wire.
type validator interface {
	Validate() error
}

// Encode returns the wire representation of p. It fails in case the header
// disagrees with the payload about the packet id, or in case the payload
// reports itself as not encodable.
func Encode(p *Packet) ([]byte, error) {
	if p.Header.PacketID != p.Payload.PacketID() {
		return nil, &PacketIDMismatchError{Header: p.Header.PacketID, Payload: p.Payload.PacketID()}
	}
	if v, ok := p.Payload.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	buf := make([]byte, p.RequiredSize())
	p.Encode(buf)
	return buf, nil
}

// Decode decodes a complete datagram into a Packet. Decoding is atomic: in
// case of any error, no packet is returned.
func Decode(data []byte) (*Packet, error) {
	h, n, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	payload, err := DecodePayload(h, data[n:])
	if err != nil {
		return nil, err
	}

	return &Packet{Header: h, Payload: payload}, nil
}

type dispatchKey struct {
	Format   uint16
	PacketID PacketID
}

type payloadDecoder func(body []byte) (Payload, error)

func wrap[T Payload](fn func(body []byte) (T, error)) payloadDecoder {
	return func(body []byte) (Payload, error) {
		v, err := fn(body)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// payloadDecoders maps each supported (format, packet id) pair to its payload
// codec. Pairs absent from this table yield an UnknownPacketTypeError.
var payloadDecoders = map[dispatchKey]payloadDecoder{
	{Format2021, PacketMotion}:       wrap(DecodeMotion),
	{Format2021, PacketEvent}:        wrap(DecodeEvent),
	{Format2021, PacketCarTelemetry}: wrap(DecodeCarTelemetry),
	{Format2021, PacketCarStatus}:    wrap(DecodeCarStatus),

	{Format2022, PacketMotion}:       wrap(DecodeMotion),
	{Format2022, PacketCarTelemetry}: wrap(DecodeCarTelemetry),
	{Format2022, PacketCarStatus}:    wrap(DecodeCarStatus),
}

// Supports returns whether a decoder is registered for the provided format
// and packet id.
func Supports(format uint16, id PacketID) bool {
	_, ok := payloadDecoders[dispatchKey{format, id}]
	return ok
}

// DecodePayload selects the codec for h and decodes body with it. body must
// contain every byte following the header.
func DecodePayload(h Header, body []byte) (Payload, error) {
	decoder, ok := payloadDecoders[dispatchKey{h.Format, h.PacketID}]
	if !ok {
		return nil, &UnknownPacketTypeError{Format: h.Format, PacketID: h.PacketID}
	}
	return decoder(body)
}

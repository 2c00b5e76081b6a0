package proto

import (
	"errors"
	"fmt"
)

// ErrPlayerIndexOutOfRange indicates that a header references a car index
// that does not exist in the fixed-size car arrays.
var ErrPlayerIndexOutOfRange = errors.New("player car index out of range")

// TruncatedBufferError indicates that a buffer holds fewer bytes than a
// fixed-size region requires.
type TruncatedBufferError struct {
	Region string
	Need   int
	Have   int
}

func (t *TruncatedBufferError) Error() string {
	return fmt.Sprintf("truncated buffer reading %s: need %d bytes, have %d", t.Region, t.Need, t.Have)
}

// SizeMismatchError indicates that a payload length does not equal the exact
// size expected for its packet type. Extra trailing bytes are rejected the
// same way as missing ones.
type SizeMismatchError struct {
	PacketID PacketID
	Expected int
	Actual   int
}

func (s *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s payload size mismatch: expected %d bytes, got %d", s.PacketID, s.Expected, s.Actual)
}

// UnknownPacketTypeError indicates that this library does not have a decoder
// for a given (format, packet id) pair. The header itself was valid, so
// callers may skip the datagram and carry on.
type UnknownPacketTypeError struct {
	Format   uint16
	PacketID PacketID
}

func (u *UnknownPacketTypeError) Error() string {
	return fmt.Sprintf("no decoder available for packet id %d (%s) in format %d", uint8(u.PacketID), u.PacketID, u.Format)
}

// CardinalityError indicates that a wrong number of per-car records was
// supplied, or that an index falls outside of the fixed car array.
type CardinalityError struct {
	Field    string
	Expected int
	Actual   int
}

func (c *CardinalityError) Error() string {
	return fmt.Sprintf("%s: expected %d entries, got %d", c.Field, c.Expected, c.Actual)
}

// NotEncodableError indicates an attempt to encode a sentinel value, such as
// an UnknownEvent, that cannot be written back with fidelity.
type NotEncodableError struct {
	Code EventCode
}

func (n *NotEncodableError) Error() string {
	return fmt.Sprintf("event %q cannot be encoded", n.Code.String())
}

// EventCodeMismatchError indicates that an Event carries a code that does not
// correspond to its details.
type EventCodeMismatchError struct {
	Code    EventCode
	Details EventCode
}

func (e *EventCodeMismatchError) Error() string {
	return fmt.Sprintf("event code %q does not match details of kind %q", e.Code.String(), e.Details.String())
}

// PacketIDMismatchError indicates that a Packet header announces a different
// packet id than its payload.
type PacketIDMismatchError struct {
	Header  PacketID
	Payload PacketID
}

func (p *PacketIDMismatchError) Error() string {
	return fmt.Sprintf("header packet id %s does not match payload %s", p.Header, p.Payload)
}

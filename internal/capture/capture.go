// Package capture implements a small container format used to persist raw
// telemetry datagrams along with the instant they were received, so sessions
// can be replayed later.
//
// A capture starts with an 8-byte file header (the magic "F1TC", a version
// byte, and three reserved bytes), followed by any number of records. Each
// record holds the receive instant as unix nanoseconds (u64), the datagram
// length (u16), and the datagram itself. All integers are little-endian.
package capture

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Magic opens every capture file.
	Magic = "F1TC"
	// Version is the only capture version currently understood.
	Version uint8 = 1

	fileHeaderSize   = 8
	recordHeaderSize = 8 + 2

	// MaxPayloadSize is the largest datagram a single record can hold.
	MaxPayloadSize = 0xFFFF
)

var (
	ErrBadMagic           = errors.New("capture: bad magic")
	ErrTruncatedRecord    = errors.New("capture: truncated record")
	ErrPayloadTooLarge    = fmt.Errorf("capture: payload exceeds %d bytes", MaxPayloadSize)
	ErrUnsupportedVersion = errors.New("capture: unsupported version")
)

// Record is a single captured datagram.
type Record struct {
	ReceivedAt time.Time
	Payload    []byte
}

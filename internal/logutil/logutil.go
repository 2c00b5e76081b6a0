package logutil

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/heyvito/f1telem/proto"
)

// StringerArr is a utility zap.Field that takes a name and a list of items
// that implement fmt.Stringer, logging the value returned by each item's
// String() method.
func StringerArr[S ~[]E, E fmt.Stringer](name string, arr S) zap.Field {
	return zap.Array(name, stringerArray[E](arr))
}

type stringerArray[E fmt.Stringer] []E

func (s stringerArray[E]) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, v := range s {
		enc.AppendString(v.String())
	}
	return nil
}

type headerMarshaler proto.Header

func (h headerMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("format", h.Format)
	enc.AddString("packet", h.PacketID.String())
	enc.AddUint64("session", h.SessionUID)
	enc.AddFloat32("time", h.SessionTime)
	enc.AddUint32("frame", h.FrameIdentifier)
	enc.AddUint8("player", h.PlayerCarIndex)
	return nil
}

// Header returns a zap.Field describing the identifying fields of a packet
// header.
func Header(h proto.Header) zap.Field {
	return zap.Object("header", headerMarshaler(h))
}

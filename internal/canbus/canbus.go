// Package canbus maps the player's car telemetry onto OBD2-style CAN frames,
// so that off-the-shelf dashboards and gauges can display it.
package canbus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
	"go.uber.org/zap"

	"github.com/heyvito/f1telem/proto"
)

// Frame identifiers emitted by Frames.
const (
	// IDVehicleSpeed carries the speed in km/h as a single byte, following
	// OBD2 PID 0x0D. Speeds above 255 are clamped.
	IDVehicleSpeed uint32 = 0x0D
	// IDVehicleSpeedWide carries the speed in km/h as a big-endian u16.
	IDVehicleSpeedWide uint32 = 0xD0
	// IDEngineRPM carries RPM*4 as a big-endian u16, following OBD2 PID 0x0C.
	// Values that do not fit are clamped.
	IDEngineRPM uint32 = 0x0C
	// IDThrottle carries the throttle position scaled to 0-255, following
	// OBD2 PID 0x11.
	IDThrottle uint32 = 0x11
)

// Transmitter sends CAN frames. socketcan.Transmitter satisfies it.
type Transmitter interface {
	TransmitFrame(ctx context.Context, frame can.Frame) error
}

func frame(id uint32, length uint8, value uint64) can.Frame {
	f := can.Frame{ID: id, Length: length}
	switch length {
	case 1:
		f.Data[0] = uint8(value)
	case 2:
		binary.BigEndian.PutUint16(f.Data[:2], uint16(value))
	case 4:
		binary.BigEndian.PutUint32(f.Data[:4], uint32(value))
	case 8:
		binary.BigEndian.PutUint64(f.Data[:], value)
	}
	return f
}

// Frames returns the CAN frames representing t.
func Frames(t proto.CarTelemetry) []can.Frame {
	speed := t.Speed
	if speed > 255 {
		speed = 255
	}

	rpm := uint64(t.EngineRPM) * 4
	if rpm > 0xFFFF {
		rpm = 0xFFFF
	}

	throttle := t.Throttle
	switch {
	case throttle < 0:
		throttle = 0
	case throttle > 1:
		throttle = 1
	}

	return []can.Frame{
		frame(IDVehicleSpeed, 1, uint64(speed)),
		frame(IDVehicleSpeedWide, 2, uint64(t.Speed)),
		frame(IDEngineRPM, 2, rpm),
		frame(IDThrottle, 1, uint64(throttle*255)),
	}
}

// Forwarder transmits the player's telemetry to a CAN bus.
type Forwarder struct {
	log    *zap.Logger
	tx     Transmitter
	sent   atomic.Uint64
	failed atomic.Uint64
}

// NewForwarder returns a Forwarder writing frames to tx.
func NewForwarder(logger *zap.Logger, tx Transmitter) *Forwarder {
	return &Forwarder{
		log: logger.With(zap.String("facility", "canbus")),
		tx:  tx,
	}
}

// Dial connects to the SocketCAN interface iface (e.g. "vcan0") and returns a
// Forwarder writing to it, along with the underlying connection, which must
// be closed by the caller.
func Dial(ctx context.Context, logger *zap.Logger, iface string) (*Forwarder, net.Conn, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, nil, fmt.Errorf("failed dialing CAN interface %s: %w", iface, err)
	}
	return NewForwarder(logger, socketcan.NewTransmitter(conn)), conn, nil
}

// Send transmits every frame representing t. All frames are attempted even
// when one of them fails; the returned error joins every failure.
func (f *Forwarder) Send(ctx context.Context, t proto.CarTelemetry) error {
	var errs []error
	for _, fr := range Frames(t) {
		if err := f.tx.TransmitFrame(ctx, fr); err != nil {
			f.failed.Add(1)
			f.log.Debug("Failed transmitting frame", zap.Uint32("id", fr.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("frame 0x%X: %w", fr.ID, err))
			continue
		}
		f.sent.Add(1)
	}
	return errors.Join(errs...)
}

// Sent returns how many frames were transmitted.
func (f *Forwarder) Sent() uint64 { return f.sent.Load() }

// Failed returns how many frames could not be transmitted.
func (f *Forwarder) Failed() uint64 { return f.failed.Load() }

package canbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.einride.tech/can"
	"go.uber.org/zap"

	"github.com/heyvito/f1telem/proto"
)

type fakeTransmitter struct {
	frames []can.Frame
	failID uint32
}

func (f *fakeTransmitter) TransmitFrame(_ context.Context, frame can.Frame) error {
	if frame.ID == f.failID {
		return errors.New("bus off")
	}
	f.frames = append(f.frames, frame)
	return nil
}

func TestFrames(t *testing.T) {
	frames := Frames(proto.CarTelemetry{Speed: 123, EngineRPM: 1000, Throttle: 1})
	require.Len(t, frames, 4)
	for _, f := range frames {
		require.NoError(t, f.Validate())
	}

	assert.Equal(t, IDVehicleSpeed, frames[0].ID)
	assert.Equal(t, uint8(1), frames[0].Length)
	assert.Equal(t, uint8(123), frames[0].Data[0])

	assert.Equal(t, IDVehicleSpeedWide, frames[1].ID)
	assert.Equal(t, []byte{0x00, 0x7B}, frames[1].Data[:2])

	assert.Equal(t, IDEngineRPM, frames[2].ID)
	assert.Equal(t, []byte{0x0F, 0xA0}, frames[2].Data[:2])

	assert.Equal(t, IDThrottle, frames[3].ID)
	assert.Equal(t, uint8(255), frames[3].Data[0])
}

func TestFrames_Clamps(t *testing.T) {
	frames := Frames(proto.CarTelemetry{Speed: 320, Throttle: 1.5})
	assert.Equal(t, uint8(255), frames[0].Data[0])
	assert.Equal(t, []byte{0x01, 0x40}, frames[1].Data[:2])
	assert.Equal(t, uint8(255), frames[3].Data[0])

	frames = Frames(proto.CarTelemetry{Throttle: -0.2})
	assert.Equal(t, uint8(0), frames[3].Data[0])
}

func TestForwarder_Send(t *testing.T) {
	tx := &fakeTransmitter{}
	f := NewForwarder(zap.NewNop(), tx)
	require.NoError(t, f.Send(context.Background(), proto.CarTelemetry{Speed: 10}))
	assert.Len(t, tx.frames, 4)
	assert.Equal(t, uint64(4), f.Sent())
}

func TestForwarder_SendContinuesOnFailure(t *testing.T) {
	tx := &fakeTransmitter{failID: IDEngineRPM}
	f := NewForwarder(zap.NewNop(), tx)
	err := f.Send(context.Background(), proto.CarTelemetry{Speed: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 0xC")
	assert.Len(t, tx.frames, 3)
	assert.Equal(t, uint64(1), f.Failed())
}

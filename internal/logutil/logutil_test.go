package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/heyvito/f1telem/proto"
)

func TestFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	h := proto.Header{Format: proto.Format2021, PacketID: proto.PacketCarStatus, SessionUID: 9, FrameIdentifier: 3}
	buttons := (proto.ButtonCrossOrA | proto.ButtonSpecial).Pressed()
	log.Info("packet", Header(h), StringerArr("buttons", buttons))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, []interface{}{"A", "Special"}, fields["buttons"])

	header, ok := fields["header"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "CarStatus", header["packet"])
	assert.Equal(t, uint64(9), header["session"])
}

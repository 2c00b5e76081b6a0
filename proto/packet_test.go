package proto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePackets(t *testing.T) []*Packet {
	t.Helper()
	return []*Packet{
		Pkt(sampleHeader(PacketMotion), sampleMotion(t)),
		Pkt(sampleHeader(PacketCarTelemetry), sampleCarTelemetryData(t)),
		Pkt(sampleHeader(PacketCarStatus), sampleCarStatusData(t)),
		Pkt(sampleHeader(PacketEvent), NewEvent(&Buttons{Flags: ButtonR2OrRT})),
		Pkt(sampleHeader(PacketEvent), NewEvent(&SessionStarted{})),
		Pkt(sampleHeader(PacketEvent), NewEvent(&Penalty{VehicleIdx: 4, Time: 5})),
	}
}

func TestPacket_RoundTrip(t *testing.T) {
	for _, pkt := range samplePackets(t) {
		t.Run(pkt.Header.PacketID.String(), func(t *testing.T) {
			data, err := Encode(pkt)
			require.NoError(t, err)
			assert.Len(t, data, HeaderSize+pkt.Payload.RequiredSize())

			decoded, err := Decode(data)
			require.NoError(t, err)
			assertNoDiff(t, pkt, decoded)
		})
	}
}

func TestPacket_EncodedSize(t *testing.T) {
	sizes := map[PacketID]int{
		PacketMotion:       1464,
		PacketCarTelemetry: 1347,
		PacketCarStatus:    1058,
	}
	for _, pkt := range samplePackets(t) {
		expected, ok := sizes[pkt.Header.PacketID]
		if !ok {
			continue
		}
		data, err := Encode(pkt)
		require.NoError(t, err)
		assert.Len(t, data, expected, pkt.Header.PacketID.String())
	}
}

func TestPacket_PrefixesNeverDecode(t *testing.T) {
	for _, pkt := range samplePackets(t) {
		data, err := Encode(pkt)
		require.NoError(t, err)

		for i := 0; i < len(data); i++ {
			res, err := Decode(data[:i])
			require.Nil(t, res, "prefix of %d bytes decoded", i)

			var truncated *TruncatedBufferError
			var mismatch *SizeMismatchError
			if !errors.As(err, &truncated) && !errors.As(err, &mismatch) {
				t.Fatalf("prefix of %d bytes of %s: unexpected error %v", i, pkt.Header.PacketID, err)
			}
		}
	}
}

func TestPacket_UnknownPacketType(t *testing.T) {
	data := join(sampleHeaderBytes(PacketID(255)), make([]byte, 16))

	h, _, err := DecodeHeader(data)
	require.NoError(t, err)
	assert.Equal(t, PacketID(255), h.PacketID)

	pkt, err := Decode(data)
	assert.Nil(t, pkt)
	var unknown *UnknownPacketTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, PacketID(255), unknown.PacketID)
	assert.Equal(t, Format2021, unknown.Format)
}

func TestPacket_UnmappedKnownID(t *testing.T) {
	_, err := Decode(join(sampleHeaderBytes(PacketLapData), make([]byte, 100)))
	var unknown *UnknownPacketTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, PacketLapData, unknown.PacketID)
}

func TestPacket_DispatchIsFormatAware(t *testing.T) {
	assert.True(t, Supports(Format2021, PacketEvent))
	assert.False(t, Supports(Format2022, PacketEvent))
	assert.True(t, Supports(Format2022, PacketCarTelemetry))
	assert.False(t, Supports(2020, PacketMotion))

	h := sampleHeader(PacketEvent)
	h.Format = Format2022
	_, err := DecodePayload(h, []byte("SSTA"))
	var unknown *UnknownPacketTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, Format2022, unknown.Format)

	h.PacketID = PacketCarTelemetry
	payload, err := DecodePayload(h, carTelemetryBodyBytes)
	require.NoError(t, err)
	assert.Equal(t, PacketCarTelemetry, payload.PacketID())
}

func TestPacket_IDMismatch(t *testing.T) {
	pkt := &Packet{Header: sampleHeader(PacketMotion), Payload: sampleCarStatusData(t)}
	_, err := Encode(pkt)
	var mismatch *PacketIDMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, PacketMotion, mismatch.Header)
	assert.Equal(t, PacketCarStatus, mismatch.Payload)
}

func TestPacket_DecodeCopiesInput(t *testing.T) {
	data := join(sampleHeaderBytes(PacketEvent), []byte("XXXX"), []byte{1, 2})
	pkt, err := Decode(data)
	require.NoError(t, err)

	data[len(data)-1] = 0xFF
	assert.Equal(t, []byte{1, 2}, pkt.Payload.(*Event).Details.(*UnknownEvent).Data)
}

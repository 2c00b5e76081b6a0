package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carStatusBodyBytes = repeat(carStatusBytes)

func TestCarStatus_Sizes(t *testing.T) {
	assert.Len(t, carStatusBytes, CarStatusSize)
	assert.Equal(t, 1034, CarStatusBodySize)
}

func TestCarStatus_Encode(t *testing.T) {
	assert.Equal(t, carStatusBodyBytes, encodeEncoder(sampleCarStatusData(t)))
}

func TestCarStatus_Decode(t *testing.T) {
	c, err := DecodeCarStatus(carStatusBodyBytes)
	require.NoError(t, err)
	assertNoDiff(t, sampleCarStatusData(t), c)
	assert.Equal(t, uint16(12280), c.Cars[0].MaxRPM)
	assert.Equal(t, float32(7.5), c.Cars[21].FuelRemainingLaps)
}

func TestCarStatus_DecodeFullPacket(t *testing.T) {
	data := join(sampleHeaderBytes(PacketCarStatus), carStatusBodyBytes)
	assert.Len(t, data, 1058)

	pkt, err := Decode(data)
	require.NoError(t, err)
	assert.IsType(t, &CarStatusData{}, pkt.Payload)
}

func TestCarStatus_DecodeSizeMismatch(t *testing.T) {
	_, err := DecodeCarStatus(carStatusBodyBytes[1:])
	var mismatch *SizeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, CarStatusBodySize, mismatch.Expected)
	assert.Equal(t, CarStatusBodySize-1, mismatch.Actual)
}

func TestNewCarStatusData_Cardinality(t *testing.T) {
	_, err := NewCarStatusData(make([]CarStatus, 30))
	var card *CardinalityError
	require.ErrorAs(t, err, &card)
	assert.Equal(t, 30, card.Actual)
}

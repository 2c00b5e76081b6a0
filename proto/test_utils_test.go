package proto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func hex2Bytes(data string) []byte {
	data = strings.ReplaceAll(data, "\n", "")
	data = strings.ReplaceAll(data, "\t", "")
	data = strings.ReplaceAll(data, " ", "")
	value, err := hex.DecodeString(data)
	if err != nil {
		panic(fmt.Sprintf("Failed reading hex data: %s", err))
	}

	return value
}

func encodeEncoder(enc Encoder) []byte {
	buf := make([]byte, enc.RequiredSize())
	enc.Encode(buf)
	return buf
}

// sampleHeader returns the header used across tests: format 2021, version
// 1.2, packet version 1, session 1 at 12.35s, frame 123, player 1 and no
// secondary player.
func sampleHeader(id PacketID) Header {
	return Header{
		Format:                  Format2021,
		GameMajorVersion:        1,
		GameMinorVersion:        2,
		PacketVersion:           1,
		PacketID:                id,
		SessionUID:              1,
		SessionTime:             12.35,
		FrameIdentifier:         123,
		PlayerCarIndex:          1,
		SecondaryPlayerCarIndex: NoSecondaryPlayer,
	}
}

func sampleHeaderBytes(id PacketID) []byte {
	return hex2Bytes(fmt.Sprintf(`
		e507 01 02 01 %02x
		0100000000000000
		9a994541
		7b000000
		01 ff`, uint8(id)))
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

var (
	carMotionBytes = hex2Bytes(`
		0000803f 00000040 00004040
		00002041 0000a041 0000f041
		0200 0200 0200
		0300 0300 0300
		00000000 0000803f 0000803f
		00000000 00000000 00000000`)

	motionExtendedBytes = join(
		make([]byte, 80),
		hex2Bytes(`
			00000040 00000040 00000040
			0000803f 0000803f 0000803f
			00000000 00000000 00000000
			00000000`),
	)

	sampleCarMotion = CarMotion{
		WorldPosition:      Vector3[float32]{1, 2, 3},
		WorldVelocity:      Vector3[float32]{10, 20, 30},
		WorldForwardDir:    Vector3[int16]{2, 2, 2},
		WorldRightDir:      Vector3[int16]{3, 3, 3},
		GForceLongitudinal: 1,
		GForceVertical:     1,
	}

	sampleMotionExtended = MotionExtended{
		LocalVelocity:   Vector3[float32]{2, 2, 2},
		AngularVelocity: Vector3[float32]{1, 1, 1},
	}

	carTelemetryBytes = hex2Bytes(`
		7b00 0000803f 00000000 00000000 00 07 e803 00 32 0000
		6400 6400 6400 6400
		c8 c8 c8 c8
		c8 c8 c8 c8
		e803
		00004842 00004842 00004842 00004842
		00 00 00 00`)

	carTelemetryTrailerBytes = hex2Bytes(`03 04 00`)

	sampleCarTelemetry = CarTelemetry{
		Speed:                   123,
		Throttle:                1,
		Gear:                    7,
		EngineRPM:               1000,
		RevLightsPercent:        50,
		BrakesTemperature:       Wheels[uint16]{100, 100, 100, 100},
		TyresSurfaceTemperature: Wheels[uint8]{200, 200, 200, 200},
		TyresInnerTemperature:   Wheels[uint8]{200, 200, 200, 200},
		EngineTemperature:       1000,
		TyresPressure:           Wheels[float32]{50, 50, 50, 50},
	}

	carStatusBytes = hex2Bytes(`
		02 01 01 38 00
		00004842 0000dc42 0000f040
		f82f e803
		08 01 0000
		10 10 03
		00
		00804a4a
		01
		00000000 00000000 00000000
		00`)

	sampleCarStatus = CarStatus{
		TractionControl:    2,
		AntiLockBrakes:     1,
		FuelMix:            1,
		FrontBrakeBias:     56,
		FuelInTank:         50,
		FuelCapacity:       110,
		FuelRemainingLaps:  7.5,
		MaxRPM:             12280,
		IdleRPM:            1000,
		MaxGears:           8,
		DRSAllowed:         1,
		ActualTyreCompound: 16,
		VisualTyreCompound: 16,
		TyresAgeLaps:       3,
		ERSStoreEnergy:     3317760,
		ERSDeployMode:      1,
	}
)

func repeat(b []byte) []byte {
	return bytes.Repeat(b, NumberOfCars)
}

func sampleMotion(t *testing.T) *Motion {
	t.Helper()
	cars := make([]CarMotion, NumberOfCars)
	for i := range cars {
		cars[i] = sampleCarMotion
	}
	m, err := NewMotion(cars, sampleMotionExtended)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func sampleCarTelemetryData(t *testing.T) *CarTelemetryData {
	t.Helper()
	cars := make([]CarTelemetry, NumberOfCars)
	for i := range cars {
		cars[i] = sampleCarTelemetry
	}
	c, err := NewCarTelemetryData(cars, 3, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func sampleCarStatusData(t *testing.T) *CarStatusData {
	t.Helper()
	cars := make([]CarStatus, NumberOfCars)
	for i := range cars {
		cars[i] = sampleCarStatus
	}
	c, err := NewCarStatusData(cars)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func assertNoDiff(t *testing.T, expected, actual any) {
	t.Helper()
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("unexpected value (-want +got):\n%s", diff)
	}
}

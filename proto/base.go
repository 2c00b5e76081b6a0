package proto

import (
	"encoding/binary"
	"math"
)

// stringer can be installed from golang.org/x/tools/cmd/stringer@latest
//go:generate stringer -type=PacketID -trimprefix=Packet

// PacketID is the header discriminator selecting which payload codec applies
// to the bytes following the header.
type PacketID uint8

const (
	// PacketMotion carries physics data for all cars being driven.
	PacketMotion PacketID = 0
	// PacketSession carries data about the session, such as track and weather.
	PacketSession PacketID = 1
	// PacketLapData carries lap times for all cars.
	PacketLapData PacketID = 2
	// PacketEvent carries details about events happening in the session.
	PacketEvent PacketID = 3
	// PacketParticipants carries the list of participants in the race.
	PacketParticipants PacketID = 4
	// PacketCarSetups carries setup data for each car.
	PacketCarSetups PacketID = 5
	// PacketCarTelemetry carries telemetry data for all cars.
	PacketCarTelemetry PacketID = 6
	// PacketCarStatus carries status data for all cars.
	PacketCarStatus PacketID = 7
	// PacketFinalClassification carries the classification at the end of a race.
	PacketFinalClassification PacketID = 8
	// PacketLobbyInfo carries information about players in a multiplayer lobby.
	PacketLobbyInfo PacketID = 9
	// PacketCarDamage carries damage status for all cars.
	PacketCarDamage PacketID = 10
	// PacketSessionHistory carries lap and tyre history for a single car.
	PacketSessionHistory PacketID = 11
)

const (
	// Format2021 is the packet format value emitted by F1 2021.
	Format2021 uint16 = 2021
	// Format2022 is the packet format value emitted by F1 22.
	Format2022 uint16 = 2022

	// NumberOfCars is the fixed amount of per-car records carried by
	// multi-car packets.
	NumberOfCars = 22
)

// Encoder represents any structure that can be written to the wire.
type Encoder interface {
	// RequiredSize returns the amount of bytes required to encode the current
	// structure.
	RequiredSize() int

	// Encode takes a slice of bytes and writes the current structure's
	// serialized representation into it. It assumes that len(into) is equal or
	// greater to the value returned by RequiredSize.
	Encode(into []byte)
}

// Payload abstracts the body of a Packet following its Header.
type Payload interface {
	PacketID() PacketID
	Encoder
}

var (
	u16Marshal = binary.LittleEndian.PutUint16
	u32Marshal = binary.LittleEndian.PutUint32
	u64Marshal = binary.LittleEndian.PutUint64

	u16Unmarshal = binary.LittleEndian.Uint16
	u32Unmarshal = binary.LittleEndian.Uint32
	u64Unmarshal = binary.LittleEndian.Uint64
)

func f32Marshal(into []byte, v float32) { u32Marshal(into, math.Float32bits(v)) }

func f32Unmarshal(from []byte) float32 { return math.Float32frombits(u32Unmarshal(from)) }

// Vector3 holds a value for each axis of the game's world space.
type Vector3[T any] struct {
	X, Y, Z T
}

// Wheels holds a value for each wheel of a car. All wheel arrays follow the
// wire order RL, RR, FL, FR.
type Wheels[T any] struct {
	RearLeft   T
	RearRight  T
	FrontLeft  T
	FrontRight T
}

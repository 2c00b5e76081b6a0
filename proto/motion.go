package proto

const (
	// CarMotionSize is the wire size of a single CarMotion record.
	CarMotionSize = 60
	// MotionExtendedSize is the wire size of the player-only block trailing
	// the car records of a Motion payload.
	MotionExtendedSize = 120
	// MotionBodySize is the exact size of a Motion payload, header excluded.
	MotionBodySize = NumberOfCars*CarMotionSize + MotionExtendedSize
)

// CarMotion holds physics data for a single car.
type CarMotion struct {
	WorldPosition Vector3[float32]
	WorldVelocity Vector3[float32]

	// WorldForwardDir and WorldRightDir are unit vectors normalised to the
	// int16 range.
	WorldForwardDir Vector3[int16]
	WorldRightDir   Vector3[int16]

	GForceLateral      float32
	GForceLongitudinal float32
	GForceVertical     float32

	// Yaw, Pitch and Roll are expressed in radians.
	Yaw   float32
	Pitch float32
	Roll  float32
}

func (c *CarMotion) RequiredSize() int { return CarMotionSize }

func (c *CarMotion) Encode(into []byte) {
	newWriter(into).
		vec3F32(c.WorldPosition).
		vec3F32(c.WorldVelocity).
		vec3I16(c.WorldForwardDir).
		vec3I16(c.WorldRightDir).
		f32(c.GForceLateral).
		f32(c.GForceLongitudinal).
		f32(c.GForceVertical).
		f32(c.Yaw).
		f32(c.Pitch).
		f32(c.Roll)
}

func (c *CarMotion) decode(r *reader) {
	r.vec3F32(&c.WorldPosition).
		vec3F32(&c.WorldVelocity).
		vec3I16(&c.WorldForwardDir).
		vec3I16(&c.WorldRightDir).
		f32(&c.GForceLateral).
		f32(&c.GForceLongitudinal).
		f32(&c.GForceVertical).
		f32(&c.Yaw).
		f32(&c.Pitch).
		f32(&c.Roll)
}

// MotionExtended holds data only available for the player's car.
type MotionExtended struct {
	SuspensionPosition     Wheels[float32]
	SuspensionVelocity     Wheels[float32]
	SuspensionAcceleration Wheels[float32]
	WheelSpeed             Wheels[float32]
	WheelSlip              Wheels[float32]
	LocalVelocity          Vector3[float32]
	AngularVelocity        Vector3[float32]
	AngularAcceleration    Vector3[float32]
	// FrontWheelsAngle is expressed in radians.
	FrontWheelsAngle float32
}

func (m *MotionExtended) RequiredSize() int { return MotionExtendedSize }

func (m *MotionExtended) Encode(into []byte) {
	newWriter(into).
		wheelsF32(m.SuspensionPosition).
		wheelsF32(m.SuspensionVelocity).
		wheelsF32(m.SuspensionAcceleration).
		wheelsF32(m.WheelSpeed).
		wheelsF32(m.WheelSlip).
		vec3F32(m.LocalVelocity).
		vec3F32(m.AngularVelocity).
		vec3F32(m.AngularAcceleration).
		f32(m.FrontWheelsAngle)
}

func (m *MotionExtended) decode(r *reader) {
	r.wheelsF32(&m.SuspensionPosition).
		wheelsF32(&m.SuspensionVelocity).
		wheelsF32(&m.SuspensionAcceleration).
		wheelsF32(&m.WheelSpeed).
		wheelsF32(&m.WheelSlip).
		vec3F32(&m.LocalVelocity).
		vec3F32(&m.AngularVelocity).
		vec3F32(&m.AngularAcceleration).
		f32(&m.FrontWheelsAngle)
}

// Motion is the payload of a PacketMotion packet. Cars is indexed by car
// slot.
type Motion struct {
	Cars     [NumberOfCars]CarMotion
	Extended MotionExtended
}

// NewMotion builds a Motion payload from a slice of car records, which must
// contain exactly NumberOfCars entries.
func NewMotion(cars []CarMotion, extended MotionExtended) (*Motion, error) {
	if len(cars) != NumberOfCars {
		return nil, &CardinalityError{Field: "motion cars", Expected: NumberOfCars, Actual: len(cars)}
	}
	m := &Motion{Extended: extended}
	copy(m.Cars[:], cars)
	return m, nil
}

func (m *Motion) PacketID() PacketID { return PacketMotion }

func (m *Motion) RequiredSize() int { return MotionBodySize }

func (m *Motion) Encode(into []byte) {
	w := newWriter(into)
	for i := range m.Cars {
		w.encoder(&m.Cars[i])
	}
	w.encoder(&m.Extended)
}

// DecodeMotion decodes a Motion payload. body must not include the header,
// and its length must be exactly MotionBodySize.
func DecodeMotion(body []byte) (*Motion, error) {
	if len(body) != MotionBodySize {
		return nil, &SizeMismatchError{PacketID: PacketMotion, Expected: MotionBodySize, Actual: len(body)}
	}

	m := &Motion{}
	r := newReader(body)
	for i := range m.Cars {
		m.Cars[i].decode(r)
	}
	m.Extended.decode(r)
	return m, nil
}

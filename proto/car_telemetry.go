package proto

const (
	// CarTelemetrySize is the wire size of a single CarTelemetry record.
	CarTelemetrySize = 60
	// carTelemetryTrailerSize accounts for the MFD panel indexes and the
	// suggested gear trailing the car records.
	carTelemetryTrailerSize = 3
	// CarTelemetryBodySize is the exact size of a CarTelemetry payload,
	// header excluded.
	CarTelemetryBodySize = NumberOfCars*CarTelemetrySize + carTelemetryTrailerSize
)

// MFDClosed is the MFD panel index reported while the MFD is closed.
const MFDClosed uint8 = 255

// CarTelemetry holds telemetry for a single car. Field order matches the
// wire layout and must not be changed.
type CarTelemetry struct {
	// Speed in kilometres per hour.
	Speed uint16
	// Throttle applied, from 0.0 to 1.0.
	Throttle float32
	// Steer ranges from -1.0 (full lock left) to 1.0 (full lock right).
	Steer float32
	// Brake applied, from 0.0 to 1.0.
	Brake float32
	// Clutch applied, from 0 to 100.
	Clutch uint8
	// Gear selected: 1-8, N=0, R=-1.
	Gear      int8
	EngineRPM uint16
	// DRS is 0 when off, 1 when on.
	DRS              uint8
	RevLightsPercent uint8
	// RevLightsBitValue has bit 0 as the leftmost LED and bit 14 as the
	// rightmost one.
	RevLightsBitValue uint16

	// Temperatures are in celsius.
	BrakesTemperature       Wheels[uint16]
	TyresSurfaceTemperature Wheels[uint8]
	TyresInnerTemperature   Wheels[uint8]
	EngineTemperature       uint16

	// TyresPressure is expressed in PSI.
	TyresPressure Wheels[float32]
	SurfaceType   Wheels[uint8]
}

// DRSActive returns whether DRS is currently open.
func (c *CarTelemetry) DRSActive() bool { return c.DRS == 1 }

func (c *CarTelemetry) RequiredSize() int { return CarTelemetrySize }

func (c *CarTelemetry) Encode(into []byte) {
	newWriter(into).
		u16(c.Speed).
		f32(c.Throttle).
		f32(c.Steer).
		f32(c.Brake).
		u8(c.Clutch).
		i8(c.Gear).
		u16(c.EngineRPM).
		u8(c.DRS).
		u8(c.RevLightsPercent).
		u16(c.RevLightsBitValue).
		wheelsU16(c.BrakesTemperature).
		wheelsU8(c.TyresSurfaceTemperature).
		wheelsU8(c.TyresInnerTemperature).
		u16(c.EngineTemperature).
		wheelsF32(c.TyresPressure).
		wheelsU8(c.SurfaceType)
}

func (c *CarTelemetry) decode(r *reader) {
	r.u16(&c.Speed).
		f32(&c.Throttle).
		f32(&c.Steer).
		f32(&c.Brake).
		u8(&c.Clutch).
		i8(&c.Gear).
		u16(&c.EngineRPM).
		u8(&c.DRS).
		u8(&c.RevLightsPercent).
		u16(&c.RevLightsBitValue).
		wheelsU16(&c.BrakesTemperature).
		wheelsU8(&c.TyresSurfaceTemperature).
		wheelsU8(&c.TyresInnerTemperature).
		u16(&c.EngineTemperature).
		wheelsF32(&c.TyresPressure).
		wheelsU8(&c.SurfaceType)
}

// CarTelemetryData is the payload of a PacketCarTelemetry packet.
type CarTelemetryData struct {
	Cars [NumberOfCars]CarTelemetry

	// MFDPanelIndex is the index of the MFD panel open, or MFDClosed.
	MFDPanelIndex                uint8
	MFDPanelIndexSecondaryPlayer uint8
	// SuggestedGear ranges from 1 to 8, with 0 meaning no suggestion.
	SuggestedGear int8
}

// NewCarTelemetryData builds a CarTelemetryData payload from a slice of car
// records, which must contain exactly NumberOfCars entries.
func NewCarTelemetryData(cars []CarTelemetry, mfdPanel, mfdPanelSecondary uint8, suggestedGear int8) (*CarTelemetryData, error) {
	if len(cars) != NumberOfCars {
		return nil, &CardinalityError{Field: "car telemetry cars", Expected: NumberOfCars, Actual: len(cars)}
	}
	c := &CarTelemetryData{
		MFDPanelIndex:                mfdPanel,
		MFDPanelIndexSecondaryPlayer: mfdPanelSecondary,
		SuggestedGear:                suggestedGear,
	}
	copy(c.Cars[:], cars)
	return c, nil
}

func (c *CarTelemetryData) PacketID() PacketID { return PacketCarTelemetry }

func (c *CarTelemetryData) RequiredSize() int { return CarTelemetryBodySize }

func (c *CarTelemetryData) Encode(into []byte) {
	w := newWriter(into)
	for i := range c.Cars {
		w.encoder(&c.Cars[i])
	}
	w.u8(c.MFDPanelIndex).
		u8(c.MFDPanelIndexSecondaryPlayer).
		i8(c.SuggestedGear)
}

// Player returns the telemetry record of the player's car as indicated by h.
func (c *CarTelemetryData) Player(h Header) (CarTelemetry, error) {
	if int(h.PlayerCarIndex) >= NumberOfCars {
		return CarTelemetry{}, ErrPlayerIndexOutOfRange
	}
	return c.Cars[h.PlayerCarIndex], nil
}

// DecodeCarTelemetry decodes a CarTelemetryData payload. body must not
// include the header, and its length must be exactly CarTelemetryBodySize.
func DecodeCarTelemetry(body []byte) (*CarTelemetryData, error) {
	if len(body) != CarTelemetryBodySize {
		return nil, &SizeMismatchError{PacketID: PacketCarTelemetry, Expected: CarTelemetryBodySize, Actual: len(body)}
	}

	c := &CarTelemetryData{}
	r := newReader(body)
	for i := range c.Cars {
		c.Cars[i].decode(r)
	}
	r.u8(&c.MFDPanelIndex).
		u8(&c.MFDPanelIndexSecondaryPlayer).
		i8(&c.SuggestedGear)
	return c, nil
}

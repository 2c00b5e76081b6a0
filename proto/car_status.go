package proto

const (
	// CarStatusSize is the wire size of a single CarStatus record.
	CarStatusSize = 47
	// CarStatusBodySize is the exact size of a CarStatus payload, header
	// excluded.
	CarStatusBodySize = NumberOfCars * CarStatusSize
)

// CarStatus holds status data for a single car.
type CarStatus struct {
	// TractionControl is 0 when off, 1 for medium, 2 for full.
	TractionControl uint8
	AntiLockBrakes  uint8
	// FuelMix is 0 for lean, 1 standard, 2 rich, 3 max.
	FuelMix uint8
	// FrontBrakeBias is a percentage.
	FrontBrakeBias    uint8
	PitLimiterStatus  uint8
	FuelInTank        float32
	FuelCapacity      float32
	FuelRemainingLaps float32
	MaxRPM            uint16
	IdleRPM           uint16
	MaxGears          uint8
	DRSAllowed        uint8
	// DRSActivationDistance is 0 when DRS is not available, otherwise the
	// distance in metres until it will be.
	DRSActivationDistance uint16
	ActualTyreCompound    uint8
	VisualTyreCompound    uint8
	TyresAgeLaps          uint8
	// VehicleFIAFlags is -1 for unknown, 0 none, 1 green, 2 blue, 3 yellow,
	// 4 red.
	VehicleFIAFlags int8
	// ERSStoreEnergy is expressed in Joules.
	ERSStoreEnergy          float32
	ERSDeployMode           uint8
	ERSHarvestedThisLapMGUK float32
	ERSHarvestedThisLapMGUH float32
	ERSDeployedThisLap      float32
	NetworkPaused           uint8
}

func (c *CarStatus) RequiredSize() int { return CarStatusSize }

func (c *CarStatus) Encode(into []byte) {
	newWriter(into).
		u8(c.TractionControl).
		u8(c.AntiLockBrakes).
		u8(c.FuelMix).
		u8(c.FrontBrakeBias).
		u8(c.PitLimiterStatus).
		f32(c.FuelInTank).
		f32(c.FuelCapacity).
		f32(c.FuelRemainingLaps).
		u16(c.MaxRPM).
		u16(c.IdleRPM).
		u8(c.MaxGears).
		u8(c.DRSAllowed).
		u16(c.DRSActivationDistance).
		u8(c.ActualTyreCompound).
		u8(c.VisualTyreCompound).
		u8(c.TyresAgeLaps).
		i8(c.VehicleFIAFlags).
		f32(c.ERSStoreEnergy).
		u8(c.ERSDeployMode).
		f32(c.ERSHarvestedThisLapMGUK).
		f32(c.ERSHarvestedThisLapMGUH).
		f32(c.ERSDeployedThisLap).
		u8(c.NetworkPaused)
}

func (c *CarStatus) decode(r *reader) {
	r.u8(&c.TractionControl).
		u8(&c.AntiLockBrakes).
		u8(&c.FuelMix).
		u8(&c.FrontBrakeBias).
		u8(&c.PitLimiterStatus).
		f32(&c.FuelInTank).
		f32(&c.FuelCapacity).
		f32(&c.FuelRemainingLaps).
		u16(&c.MaxRPM).
		u16(&c.IdleRPM).
		u8(&c.MaxGears).
		u8(&c.DRSAllowed).
		u16(&c.DRSActivationDistance).
		u8(&c.ActualTyreCompound).
		u8(&c.VisualTyreCompound).
		u8(&c.TyresAgeLaps).
		i8(&c.VehicleFIAFlags).
		f32(&c.ERSStoreEnergy).
		u8(&c.ERSDeployMode).
		f32(&c.ERSHarvestedThisLapMGUK).
		f32(&c.ERSHarvestedThisLapMGUH).
		f32(&c.ERSDeployedThisLap).
		u8(&c.NetworkPaused)
}

// CarStatusData is the payload of a PacketCarStatus packet.
type CarStatusData struct {
	Cars [NumberOfCars]CarStatus
}

// NewCarStatusData builds a CarStatusData payload from a slice of car
// records, which must contain exactly NumberOfCars entries.
func NewCarStatusData(cars []CarStatus) (*CarStatusData, error) {
	if len(cars) != NumberOfCars {
		return nil, &CardinalityError{Field: "car status cars", Expected: NumberOfCars, Actual: len(cars)}
	}
	c := &CarStatusData{}
	copy(c.Cars[:], cars)
	return c, nil
}

func (c *CarStatusData) PacketID() PacketID { return PacketCarStatus }

func (c *CarStatusData) RequiredSize() int { return CarStatusBodySize }

func (c *CarStatusData) Encode(into []byte) {
	w := newWriter(into)
	for i := range c.Cars {
		w.encoder(&c.Cars[i])
	}
}

// DecodeCarStatus decodes a CarStatusData payload. body must not include the
// header, and its length must be exactly CarStatusBodySize.
func DecodeCarStatus(body []byte) (*CarStatusData, error) {
	if len(body) != CarStatusBodySize {
		return nil, &SizeMismatchError{PacketID: PacketCarStatus, Expected: CarStatusBodySize, Actual: len(body)}
	}

	c := &CarStatusData{}
	r := newReader(body)
	for i := range c.Cars {
		c.Cars[i].decode(r)
	}
	return c, nil
}

package proto

// SessionStarted is sent when the session starts.
type SessionStarted struct{}

func (*SessionStarted) Code() EventCode   { return CodeSessionStarted }
func (*SessionStarted) RequiredSize() int { return 0 }
func (*SessionStarted) Encode([]byte)     {}
func (*SessionStarted) decode(*reader)    {}

// SessionEnded is sent when the session ends.
type SessionEnded struct{}

func (*SessionEnded) Code() EventCode   { return CodeSessionEnded }
func (*SessionEnded) RequiredSize() int { return 0 }
func (*SessionEnded) Encode([]byte)     {}
func (*SessionEnded) decode(*reader)    {}

// DRSEnabled is sent when race control enables DRS.
type DRSEnabled struct{}

func (*DRSEnabled) Code() EventCode   { return CodeDRSEnabled }
func (*DRSEnabled) RequiredSize() int { return 0 }
func (*DRSEnabled) Encode([]byte)     {}
func (*DRSEnabled) decode(*reader)    {}

// DRSDisabled is sent when race control disables DRS.
type DRSDisabled struct{}

func (*DRSDisabled) Code() EventCode   { return CodeDRSDisabled }
func (*DRSDisabled) RequiredSize() int { return 0 }
func (*DRSDisabled) Encode([]byte)     {}
func (*DRSDisabled) decode(*reader)    {}

// ChequeredFlag is sent when the chequered flag has been waved.
type ChequeredFlag struct{}

func (*ChequeredFlag) Code() EventCode   { return CodeChequeredFlag }
func (*ChequeredFlag) RequiredSize() int { return 0 }
func (*ChequeredFlag) Encode([]byte)     {}
func (*ChequeredFlag) decode(*reader)    {}

// LightsOut is sent when the start lights go out.
type LightsOut struct{}

func (*LightsOut) Code() EventCode   { return CodeLightsOut }
func (*LightsOut) RequiredSize() int { return 0 }
func (*LightsOut) Encode([]byte)     {}
func (*LightsOut) decode(*reader)    {}

// FastestLap is sent when a driver achieves the fastest lap.
type FastestLap struct {
	VehicleIdx uint8
	// LapTime is expressed in seconds.
	LapTime float32
}

func (*FastestLap) Code() EventCode     { return CodeFastestLap }
func (f *FastestLap) RequiredSize() int { return 5 }

func (f *FastestLap) Encode(into []byte) {
	newWriter(into).u8(f.VehicleIdx).f32(f.LapTime)
}

func (f *FastestLap) decode(r *reader) {
	r.u8(&f.VehicleIdx).f32(&f.LapTime)
}

// Retirement is sent when a driver retires.
type Retirement struct {
	VehicleIdx uint8
}

func (*Retirement) Code() EventCode      { return CodeRetirement }
func (v *Retirement) RequiredSize() int  { return 1 }
func (v *Retirement) Encode(into []byte) { into[0] = v.VehicleIdx }
func (v *Retirement) decode(r *reader)   { r.u8(&v.VehicleIdx) }

// TeamMateInPits is sent when the player's team mate enters the pits.
type TeamMateInPits struct {
	VehicleIdx uint8
}

func (*TeamMateInPits) Code() EventCode      { return CodeTeamMateInPits }
func (v *TeamMateInPits) RequiredSize() int  { return 1 }
func (v *TeamMateInPits) Encode(into []byte) { into[0] = v.VehicleIdx }
func (v *TeamMateInPits) decode(r *reader)   { r.u8(&v.VehicleIdx) }

// RaceWinner is sent when the race winner is announced.
type RaceWinner struct {
	VehicleIdx uint8
}

func (*RaceWinner) Code() EventCode      { return CodeRaceWinner }
func (v *RaceWinner) RequiredSize() int  { return 1 }
func (v *RaceWinner) Encode(into []byte) { into[0] = v.VehicleIdx }
func (v *RaceWinner) decode(r *reader)   { r.u8(&v.VehicleIdx) }

// DriveThroughPenaltyServed is sent when a drive-through penalty was served.
type DriveThroughPenaltyServed struct {
	VehicleIdx uint8
}

func (*DriveThroughPenaltyServed) Code() EventCode      { return CodeDriveThroughServed }
func (v *DriveThroughPenaltyServed) RequiredSize() int  { return 1 }
func (v *DriveThroughPenaltyServed) Encode(into []byte) { into[0] = v.VehicleIdx }
func (v *DriveThroughPenaltyServed) decode(r *reader)   { r.u8(&v.VehicleIdx) }

// StopGoPenaltyServed is sent when a stop-go penalty was served.
type StopGoPenaltyServed struct {
	VehicleIdx uint8
}

func (*StopGoPenaltyServed) Code() EventCode      { return CodeStopGoServed }
func (v *StopGoPenaltyServed) RequiredSize() int  { return 1 }
func (v *StopGoPenaltyServed) Encode(into []byte) { into[0] = v.VehicleIdx }
func (v *StopGoPenaltyServed) decode(r *reader)   { r.u8(&v.VehicleIdx) }

// Penalty is sent when a penalty has been issued.
type Penalty struct {
	PenaltyType      uint8
	InfringementType uint8
	// VehicleIdx is the car the penalty is applied to.
	VehicleIdx uint8
	// OtherVehicleIdx is the other car involved.
	OtherVehicleIdx uint8
	// Time gained, or time spent doing the action, in seconds.
	Time         uint8
	LapNum       uint8
	PlacesGained uint8
}

func (*Penalty) Code() EventCode     { return CodePenaltyIssued }
func (p *Penalty) RequiredSize() int { return 7 }

func (p *Penalty) Encode(into []byte) {
	newWriter(into).
		u8(p.PenaltyType).
		u8(p.InfringementType).
		u8(p.VehicleIdx).
		u8(p.OtherVehicleIdx).
		u8(p.Time).
		u8(p.LapNum).
		u8(p.PlacesGained)
}

func (p *Penalty) decode(r *reader) {
	r.u8(&p.PenaltyType).
		u8(&p.InfringementType).
		u8(&p.VehicleIdx).
		u8(&p.OtherVehicleIdx).
		u8(&p.Time).
		u8(&p.LapNum).
		u8(&p.PlacesGained)
}

// SpeedTrap is sent when a car crosses the speed trap with the fastest speed
// of the session so far.
type SpeedTrap struct {
	VehicleIdx uint8
	// Speed in kilometres per hour.
	Speed                   float32
	OverallFastestInSession uint8
	DriverFastestInSession  uint8
}

func (*SpeedTrap) Code() EventCode     { return CodeSpeedTrap }
func (s *SpeedTrap) RequiredSize() int { return 7 }

func (s *SpeedTrap) Encode(into []byte) {
	newWriter(into).
		u8(s.VehicleIdx).
		f32(s.Speed).
		u8(s.OverallFastestInSession).
		u8(s.DriverFastestInSession)
}

func (s *SpeedTrap) decode(r *reader) {
	r.u8(&s.VehicleIdx).
		f32(&s.Speed).
		u8(&s.OverallFastestInSession).
		u8(&s.DriverFastestInSession)
}

// StartLights is sent as each start light comes on.
type StartLights struct {
	NumLights uint8
}

func (*StartLights) Code() EventCode      { return CodeStartLights }
func (s *StartLights) RequiredSize() int  { return 1 }
func (s *StartLights) Encode(into []byte) { into[0] = s.NumLights }
func (s *StartLights) decode(r *reader)   { r.u8(&s.NumLights) }

// Flashback is sent when a flashback is activated.
type Flashback struct {
	FrameIdentifier uint32
	SessionTime     float32
}

func (*Flashback) Code() EventCode     { return CodeFlashback }
func (f *Flashback) RequiredSize() int { return 8 }

func (f *Flashback) Encode(into []byte) {
	newWriter(into).u32(f.FrameIdentifier).f32(f.SessionTime)
}

func (f *Flashback) decode(r *reader) {
	r.u32(&f.FrameIdentifier).f32(&f.SessionTime)
}

// Buttons reports the controller buttons currently pressed.
type Buttons struct {
	Flags ButtonFlags
}

func (*Buttons) Code() EventCode     { return CodeButtonStatus }
func (b *Buttons) RequiredSize() int { return 4 }

func (b *Buttons) Encode(into []byte) {
	u32Marshal(into, uint32(b.Flags))
}

func (b *Buttons) decode(r *reader) {
	var v uint32
	r.u32(&v)
	b.Flags = ButtonFlags(v)
}

// UnknownEvent holds an event whose code has no decoder. Data contains every
// byte following the code, padding included. UnknownEvent values are never
// encoded; Encode is only provided to satisfy EventDetails.
type UnknownEvent struct {
	Tag  EventCode
	Data []byte
}

func (u *UnknownEvent) Code() EventCode    { return u.Tag }
func (u *UnknownEvent) RequiredSize() int  { return len(u.Data) }
func (u *UnknownEvent) Encode(into []byte) { copy(into, u.Data) }
func (u *UnknownEvent) decode(*reader)     {}

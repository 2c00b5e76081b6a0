package proto

import "fmt"

const (
	// EventCodeSize is the size of the ASCII tag opening every Event payload.
	EventCodeSize = 4

	// EventDetailsUnionSize is the size the game pads every event detail
	// structure to. Known events are accepted either with their exact size
	// or padded to this size.
	EventDetailsUnionSize = 8
)

// EventCode is the 4-byte ASCII tag identifying the kind of an Event. It is
// neither null-terminated nor length-prefixed.
type EventCode [EventCodeSize]byte

func (e EventCode) String() string { return string(e[:]) }

func (e EventCode) MarshalText() ([]byte, error) { return e[:], nil }

func (e *EventCode) UnmarshalText(text []byte) error {
	if len(text) != EventCodeSize {
		return fmt.Errorf("invalid event code %q: must be %d bytes long", text, EventCodeSize)
	}
	copy(e[:], text)
	return nil
}

// Canonical returns the primary code for e. Historical aliases are mapped to
// the code currently emitted by the game; any other value is returned as-is.
func (e EventCode) Canonical() EventCode {
	if c, ok := eventCodeAliases[e]; ok {
		return c
	}
	return e
}

// IsAlias returns whether e is a historical alias of another code.
func (e EventCode) IsAlias() bool {
	_, ok := eventCodeAliases[e]
	return ok
}

// Known reports whether a decoder is available for e.
func (e EventCode) Known() bool {
	_, ok := eventDecoderList[e.Canonical()]
	return ok
}

// EventCodeFromString returns an EventCode from a 4-character string.
// Panics in case len(s) != 4.
func EventCodeFromString(s string) EventCode {
	if len(s) != EventCodeSize {
		panic("Invalid event code size")
	}
	var c EventCode
	copy(c[:], s)
	return c
}

var (
	CodeSessionStarted     = EventCodeFromString("SSTA")
	CodeSessionEnded       = EventCodeFromString("SEND")
	CodeFastestLap         = EventCodeFromString("FTLP")
	CodeRetirement         = EventCodeFromString("RTMT")
	CodeDRSEnabled         = EventCodeFromString("DRSE")
	CodeDRSDisabled        = EventCodeFromString("DRSD")
	CodeTeamMateInPits     = EventCodeFromString("TMPT")
	CodeChequeredFlag      = EventCodeFromString("CHQF")
	CodeRaceWinner         = EventCodeFromString("RCWN")
	CodePenaltyIssued      = EventCodeFromString("PENA")
	CodeSpeedTrap          = EventCodeFromString("SPTP")
	CodeStartLights        = EventCodeFromString("STLG")
	CodeLightsOut          = EventCodeFromString("LGOT")
	CodeDriveThroughServed = EventCodeFromString("DTSV")
	CodeStopGoServed       = EventCodeFromString("SGSV")
	CodeFlashback          = EventCodeFromString("FLBK")
	CodeButtonStatus       = EventCodeFromString("BUTN")

	// CodeFastestLapLegacy is the byte order some producers use for the
	// fastest lap event. It decodes as CodeFastestLap.
	CodeFastestLapLegacy = EventCodeFromString("FLTP")
)

// eventCodeAliases maps historical codes to their canonical counterpart.
var eventCodeAliases = map[EventCode]EventCode{
	CodeFastestLapLegacy: CodeFastestLap,
}

// EventDetails represents the tag-specific body of an Event. The set of
// implementations is closed: one type per known code, plus UnknownEvent.
type EventDetails interface {
	Encoder
	Code() EventCode
	decode(r *reader)
}

// eventDecoderList associates each canonical EventCode with a constructor for
// its details. Details sizes are fixed, and obtained through RequiredSize on
// the zero value.
var eventDecoderList = map[EventCode]func() EventDetails{
	CodeSessionStarted:     func() EventDetails { return &SessionStarted{} },
	CodeSessionEnded:       func() EventDetails { return &SessionEnded{} },
	CodeFastestLap:         func() EventDetails { return &FastestLap{} },
	CodeRetirement:         func() EventDetails { return &Retirement{} },
	CodeDRSEnabled:         func() EventDetails { return &DRSEnabled{} },
	CodeDRSDisabled:        func() EventDetails { return &DRSDisabled{} },
	CodeTeamMateInPits:     func() EventDetails { return &TeamMateInPits{} },
	CodeChequeredFlag:      func() EventDetails { return &ChequeredFlag{} },
	CodeRaceWinner:         func() EventDetails { return &RaceWinner{} },
	CodePenaltyIssued:      func() EventDetails { return &Penalty{} },
	CodeSpeedTrap:          func() EventDetails { return &SpeedTrap{} },
	CodeStartLights:        func() EventDetails { return &StartLights{} },
	CodeLightsOut:          func() EventDetails { return &LightsOut{} },
	CodeDriveThroughServed: func() EventDetails { return &DriveThroughPenaltyServed{} },
	CodeStopGoServed:       func() EventDetails { return &StopGoPenaltyServed{} },
	CodeFlashback:          func() EventDetails { return &Flashback{} },
	CodeButtonStatus:       func() EventDetails { return &Buttons{} },
}

// Event is the payload of a PacketEvent packet. Code holds the tag as
// received, which may be an alias of Details.Code(). A zero Code is replaced
// by Details.Code() when encoding.
type Event struct {
	Code    EventCode
	Details EventDetails
}

// NewEvent returns an Event wrapping the provided details under their
// canonical code.
func NewEvent(details EventDetails) *Event {
	return &Event{Code: details.Code(), Details: details}
}

func (e *Event) PacketID() PacketID { return PacketEvent }

func (e *Event) RequiredSize() int {
	return EventCodeSize + e.Details.RequiredSize()
}

func (e *Event) Encode(into []byte) {
	newWriter(into).
		bytes(e.wireCode()).
		encoder(e.Details)
}

// IsUnknown returns whether the event carries an unrecognised code.
func (e *Event) IsUnknown() bool {
	_, ok := e.Details.(*UnknownEvent)
	return ok
}

// Validate returns an error in case the event cannot be encoded with
// fidelity.
func (e *Event) Validate() error {
	if e.Details == nil {
		return &NotEncodableError{Code: e.Code}
	}
	if u, ok := e.Details.(*UnknownEvent); ok {
		return &NotEncodableError{Code: u.Tag}
	}
	if e.Code != (EventCode{}) && e.Code.Canonical() != e.Details.Code() {
		return &EventCodeMismatchError{Code: e.Code, Details: e.Details.Code()}
	}
	return nil
}

func (e *Event) wireCode() []byte {
	code := e.Code
	if code == (EventCode{}) {
		code = e.Details.Code()
	}
	return code[:]
}

// DecodeEvent decodes an Event payload. body must not include the header.
// Unrecognised codes do not yield an error; they are returned as an
// UnknownEvent carrying the remaining bytes.
func DecodeEvent(body []byte) (*Event, error) {
	if len(body) < EventCodeSize {
		return nil, &TruncatedBufferError{Region: "event code", Need: EventCodeSize, Have: len(body)}
	}

	ev := &Event{}
	copy(ev.Code[:], body[:EventCodeSize])
	rest := body[EventCodeSize:]

	ctor, ok := eventDecoderList[ev.Code.Canonical()]
	if !ok {
		ev.Details = &UnknownEvent{Tag: ev.Code, Data: newReader(rest).rest()}
		return ev, nil
	}

	details := ctor()
	size := details.RequiredSize()
	if len(rest) != size && len(rest) != EventDetailsUnionSize {
		return nil, &SizeMismatchError{PacketID: PacketEvent, Expected: EventCodeSize + size, Actual: len(body)}
	}
	details.decode(newReader(rest))
	ev.Details = details
	return ev, nil
}

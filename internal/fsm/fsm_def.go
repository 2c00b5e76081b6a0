package fsm

import "encoding/binary"

// DefaultByteOrder is used by definitions that do not set ByteOrder.
var DefaultByteOrder binary.ByteOrder = binary.LittleEndian

// StepFunc is invoked each time the amount of bytes expected by the current
// state has been buffered. It may return Done once the value is complete,
// nil when more data is required, or any other error to abort the value
// being decoded.
type StepFunc[T any, S ~uint8] func(f *FSM[T, S], state S) error

// Def describes a decoder producing values of type T by walking through a
// set of states S. Every state waits for a fixed amount of bytes, set through
// Expect, before Step is invoked.
type Def[T any, S ~uint8] struct {
	// InitialState is the state the decoder is placed on after each value.
	// Defaults to S's zero value.
	InitialState S

	// InitialSize is the amount of bytes InitialState expects. Required.
	InitialSize int

	// Step handles a state once its bytes are available. Required.
	Step StepFunc[T, S]

	// ByteOrder used by the integer accessors. Defaults to DefaultByteOrder.
	ByteOrder binary.ByteOrder
}

// New returns a new decoder based on this definition.
func (d Def[T, S]) New() *FSM[T, S] {
	f := &FSM[T, S]{
		step:      d.Step,
		order:     d.ByteOrder,
		initState: d.InitialState,
		initSize:  d.InitialSize,
	}
	if f.order == nil {
		f.order = DefaultByteOrder
	}
	f.Reset()
	return f
}

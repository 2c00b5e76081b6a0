// Package fsm implements byte-fed decoders for framed binary streams. A
// decoder buffers exactly the amount of bytes its current state expects, and
// only then hands control to the definition's step function.
package fsm

import (
	"encoding/binary"
	"errors"
)

// FSM is a decoder instance built from a Def. It is not safe for concurrent
// use.
type FSM[T any, S ~uint8] struct {
	// Value is the value being decoded. Step functions fill it as states
	// are walked through.
	Value *T

	step      StepFunc[T, S]
	order     binary.ByteOrder
	initState S
	initSize  int

	state  S
	want   int
	buffer []byte
}

// Reset discards any partially decoded value and returns the decoder to its
// initial state.
func (f *FSM[T, S]) Reset() {
	f.state = f.initState
	f.want = f.initSize
	f.buffer = f.buffer[:0]
	f.Value = new(T)
}

// Pending returns whether the decoder holds a partially decoded value.
func (f *FSM[T, S]) Pending() bool {
	return f.state != f.initState || len(f.buffer) > 0
}

// Feed feeds a single byte to the decoder. It returns the decoded value once
// the step function signals Done, and nil while more data is required. Any
// other error resets the decoder and is handed back to the caller.
func (f *FSM[T, S]) Feed(b byte) (*T, error) {
	f.buffer = append(f.buffer, b)
	if len(f.buffer) < f.want {
		return nil, nil
	}

	err := f.step(f, f.state)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, Done):
		v := f.Value
		f.Reset()
		return v, nil
	default:
		f.Reset()
		return nil, err
	}
}

// Write feeds data to the decoder until a value is complete or data is
// exhausted. It returns the value, if any, along with the amount of bytes
// consumed from data.
func (f *FSM[T, S]) Write(data []byte) (*T, int, error) {
	for i, b := range data {
		v, err := f.Feed(b)
		if err != nil || v != nil {
			return v, i + 1, err
		}
	}
	return nil, len(data), nil
}

// Expect moves the decoder to next, which will be stepped once size more
// bytes are buffered. size must be positive.
func (f *FSM[T, S]) Expect(next S, size int) {
	f.state = next
	f.want = size
	f.buffer = f.buffer[:0]
}

// Bytes returns a copy of the bytes buffered for the current state.
func (f *FSM[T, S]) Bytes() []byte {
	out := make([]byte, len(f.buffer))
	copy(out, f.buffer)
	return out
}

// U8 returns the first buffered byte.
func (f *FSM[T, S]) U8() uint8 { return f.buffer[0] }

// U16 decodes the first two buffered bytes.
func (f *FSM[T, S]) U16() uint16 { return f.order.Uint16(f.buffer) }

// U32 decodes the first four buffered bytes.
func (f *FSM[T, S]) U32() uint32 { return f.order.Uint32(f.buffer) }

// U64 decodes the first eight buffered bytes.
func (f *FSM[T, S]) U64() uint64 { return f.order.Uint64(f.buffer) }

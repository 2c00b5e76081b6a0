package fsm

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairState uint8

const (
	pairStateFirst pairState = iota
	pairStateSecond
)

type pair struct {
	A uint16
	B uint32
}

var errZero = errors.New("zero not allowed")

func pairDef(order binary.ByteOrder) Def[pair, pairState] {
	return Def[pair, pairState]{
		InitialSize: 2,
		ByteOrder:   order,
		Step: func(f *FSM[pair, pairState], state pairState) error {
			switch state {
			case pairStateFirst:
				f.Value.A = f.U16()
				if f.Value.A == 0 {
					return errZero
				}
				f.Expect(pairStateSecond, 4)
			case pairStateSecond:
				f.Value.B = f.U32()
				return Done
			}
			return nil
		},
	}
}

func TestFSM_Decode(t *testing.T) {
	f := pairDef(nil).New()
	v, n, err := f.Write([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, &pair{A: 0x0201, B: 0x06050403}, v)
	assert.False(t, f.Pending())
}

func TestFSM_ByteOrder(t *testing.T) {
	f := pairDef(binary.BigEndian).New()
	v, _, err := f.Write([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	require.NoError(t, err)
	assert.Equal(t, &pair{A: 0x0102, B: 0x03040506}, v)
}

func TestFSM_Pending(t *testing.T) {
	f := pairDef(nil).New()
	v, n, err := f.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Nil(t, v)
	assert.True(t, f.Pending())

	f.Reset()
	assert.False(t, f.Pending())
}

func TestFSM_ErrorResets(t *testing.T) {
	f := pairDef(nil).New()
	_, n, err := f.Write([]byte{0x00, 0x00, 0x01})
	assert.ErrorIs(t, err, errZero)
	assert.Equal(t, 2, n)
	assert.False(t, f.Pending())

	v, _, err := f.Write([]byte{0x01, 0x00, 0x01, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, &pair{A: 1, B: 1}, v)
}

func TestFSM_ValuesAreIndependent(t *testing.T) {
	f := pairDef(nil).New()
	a, _, err := f.Write([]byte{0x01, 0x00, 0x01, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	b, _, err := f.Write([]byte{0x02, 0x00, 0x02, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, uint16(1), a.A)
	assert.Equal(t, uint16(2), b.A)
}

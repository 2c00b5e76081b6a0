package relay

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerEmptyKey(t *testing.T) {
	t.Run("seal", func(t *testing.T) {
		// output must match input
		input := []byte{1, 2, 3, 4, 5}
		s, err := NewSealer(nil)
		require.NoError(t, err)
		output, err := s.Seal(input)
		require.NoError(t, err)
		require.Equal(t, input, output)
		require.Zero(t, s.Overhead())
	})

	t.Run("open", func(t *testing.T) {
		input := []byte{1, 2, 3, 4, 5}
		s, err := NewSealer(nil)
		require.NoError(t, err)
		output, err := s.Open(input)
		require.NoError(t, err)
		require.Equal(t, input, output)
	})
}

func TestSealerWithKey(t *testing.T) {
	sharedKey := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0xa, 0xb, 0xc, 0xd, 0xe, 0xf}
	otherKey := append([]byte{}, sharedKey...)
	slices.Reverse(otherKey)

	data := []byte{1, 2, 3, 4, 5}

	t.Run("round-trip", func(t *testing.T) {
		s, err := NewSealer(sharedKey)
		require.NoError(t, err)

		sealed, err := s.Seal(data)
		require.NoError(t, err)
		require.NotEqual(t, sealed, data)
		require.Len(t, sealed, len(data)+s.Overhead())

		open, err := s.Open(sealed)
		require.NoError(t, err)
		require.Equal(t, data, open)
	})

	t.Run("bad key", func(t *testing.T) {
		s1, err := NewSealer(otherKey)
		require.NoError(t, err)
		s2, err := NewSealer(sharedKey)
		require.NoError(t, err)

		sealed, err := s1.Seal(data)
		require.NoError(t, err)

		_, err = s2.Open(sealed)
		assert.ErrorIs(t, err, ErrOpenFailed)
	})

	t.Run("short input", func(t *testing.T) {
		s, err := NewSealer(sharedKey)
		require.NoError(t, err)
		_, err = s.Open([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrOpenFailed)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewSealer([]byte{1, 2, 3})
		assert.Error(t, err)
	})
}

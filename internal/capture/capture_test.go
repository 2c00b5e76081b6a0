package capture

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCapture(t *testing.T, records ...Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, w.Write(r.ReceivedAt, r.Payload))
	}
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func TestWriter_Layout(t *testing.T) {
	data := writeCapture(t, Record{ReceivedAt: time.Unix(0, 0x0102), Payload: []byte{0xAA, 0xBB}})
	expected := []byte{
		'F', '1', 'T', 'C', 0x01, 0x00, 0x00, 0x00,
		0x02, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x02, 0x00,
		0xAA, 0xBB,
	}
	assert.Equal(t, expected, data)
}

func TestReader_RoundTrip(t *testing.T) {
	at := time.Unix(1700000000, 123456789)
	records := []Record{
		{ReceivedAt: at, Payload: []byte("first")},
		{ReceivedAt: at.Add(time.Millisecond), Payload: []byte{}},
		{ReceivedAt: at.Add(2 * time.Millisecond), Payload: bytes.Repeat([]byte{0x42}, 1464)},
	}

	r, err := NewReader(bytes.NewReader(writeCapture(t, records...)))
	require.NoError(t, err)

	got, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(records))
	for i, rec := range records {
		assert.True(t, rec.ReceivedAt.Equal(got[i].ReceivedAt))
		assert.Equal(t, rec.Payload, got[i].Payload)
	}

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_Truncated(t *testing.T) {
	data := writeCapture(t, Record{ReceivedAt: time.Unix(1, 0), Payload: []byte("payload")})
	for _, cut := range []int{1, 9, 11, 3} {
		r, err := NewReader(bytes.NewReader(data[:len(data)-cut]))
		require.NoError(t, err)
		_, err = r.Next()
		assert.ErrorIs(t, err, ErrTruncatedRecord, "cut %d", cut)
	}
}

func TestReader_BadHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("F1T")))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = NewReader(bytes.NewReader([]byte("PCAP\x01\x00\x00\x00")))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = NewReader(bytes.NewReader([]byte("F1TC\x02\x00\x00\x00")))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestWriter_PayloadTooLarge(t *testing.T) {
	w, err := NewWriter(io.Discard)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Write(time.Now(), make([]byte, MaxPayloadSize+1)), ErrPayloadTooLarge)
}

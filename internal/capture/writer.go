package capture

import (
	"bufio"
	"encoding/binary"
	"io"
	"sync"
	"time"
)

// Writer appends records to an underlying io.Writer. It is safe for
// concurrent use.
type Writer struct {
	mu  sync.Mutex
	buf *bufio.Writer
	hdr [recordHeaderSize]byte
}

// NewWriter writes the capture file header to w and returns a Writer ready to
// receive records.
func NewWriter(w io.Writer) (*Writer, error) {
	header := [fileHeaderSize]byte{}
	copy(header[:], Magic)
	header[4] = Version

	buf := bufio.NewWriter(w)
	if _, err := buf.Write(header[:]); err != nil {
		return nil, err
	}
	return &Writer{buf: buf}, nil
}

// Write appends a single record. Records are buffered; call Flush to ensure
// they reach the underlying writer.
func (w *Writer) Write(at time.Time, payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	binary.LittleEndian.PutUint64(w.hdr[:8], uint64(at.UnixNano()))
	binary.LittleEndian.PutUint16(w.hdr[8:], uint16(len(payload)))
	if _, err := w.buf.Write(w.hdr[:]); err != nil {
		return err
	}
	_, err := w.buf.Write(payload)
	return err
}

// Flush writes any buffered record to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}

package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/heyvito/f1telem/internal/fsm"
)

type recordDecoderState uint8

const (
	recordDecoderStateTimestamp recordDecoderState = iota
	recordDecoderStateLength
	recordDecoderStatePayload
)

type rawRecord struct {
	nanos   uint64
	payload []byte
}

var recordDecoder = fsm.Def[rawRecord, recordDecoderState]{
	InitialSize: 8,
	Step: func(f *fsm.FSM[rawRecord, recordDecoderState], state recordDecoderState) error {
		switch state {
		case recordDecoderStateTimestamp:
			f.Value.nanos = f.U64()
			f.Expect(recordDecoderStateLength, 2)
		case recordDecoderStateLength:
			size := int(f.U16())
			if size == 0 {
				f.Value.payload = []byte{}
				return fsm.Done
			}
			f.Expect(recordDecoderStatePayload, size)
		case recordDecoderStatePayload:
			f.Value.payload = f.Bytes()
			return fsm.Done
		}
		return nil
	},
}

// Reader reads records from a capture file.
type Reader struct {
	src *bufio.Reader
	dec *fsm.FSM[rawRecord, recordDecoderState]
}

// NewReader reads and validates the capture file header from r.
func NewReader(r io.Reader) (*Reader, error) {
	src := bufio.NewReader(r)
	var header [fileHeaderSize]byte
	if _, err := io.ReadFull(src, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, err
	}
	if string(header[:4]) != Magic {
		return nil, ErrBadMagic
	}
	if header[4] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[4])
	}

	return &Reader{src: src, dec: recordDecoder.New()}, nil
}

// Next returns the next record in the capture. It returns io.EOF once all
// records have been read, and ErrTruncatedRecord in case the capture ends in
// the middle of a record.
func (r *Reader) Next() (*Record, error) {
	for {
		b, err := r.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && r.dec.Pending() {
				r.dec.Reset()
				return nil, ErrTruncatedRecord
			}
			return nil, err
		}

		raw, err := r.dec.Feed(b)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			return &Record{
				ReceivedAt: time.Unix(0, int64(raw.nanos)),
				Payload:    raw.payload,
			}, nil
		}
	}
}

// ReadAll returns every remaining record in the capture.
func (r *Reader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Package stats keeps counters and inter-arrival distributions about the
// telemetry stream being received.
package stats

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/influxdata/tdigest"

	"github.com/heyvito/f1telem/internal/containers"
	"github.com/heyvito/f1telem/proto"
)

// Error kinds reported by ErrorKind.
const (
	KindTruncated         = "truncated"
	KindSizeMismatch      = "size_mismatch"
	KindUnknownPacketType = "unknown_packet_type"
	KindOther             = "other"
)

// ErrorKind classifies a decode error returned by the proto package.
func ErrorKind(err error) string {
	var truncated *proto.TruncatedBufferError
	var mismatch *proto.SizeMismatchError
	var unknown *proto.UnknownPacketTypeError
	switch {
	case errors.As(err, &truncated):
		return KindTruncated
	case errors.As(err, &mismatch):
		return KindSizeMismatch
	case errors.As(err, &unknown):
		return KindUnknownPacketType
	default:
		return KindOther
	}
}

type packetStats struct {
	mu     sync.Mutex
	count  uint64
	bytes  uint64
	last   time.Time
	digest *tdigest.TDigest
}

func newPacketStats() *packetStats {
	return &packetStats{digest: tdigest.New()}
}

func (p *packetStats) observe(size int, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	p.bytes += uint64(size)
	if !p.last.IsZero() && at.After(p.last) {
		p.digest.Add(float64(at.Sub(p.last).Microseconds()), 1)
	}
	p.last = at
}

func (p *packetStats) snapshot(id proto.PacketID) PacketSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := PacketSnapshot{ID: id, Count: p.count, Bytes: p.bytes}
	if p.digest.Count() > 0 {
		s.IntervalP50 = time.Duration(p.digest.Quantile(0.5)) * time.Microsecond
		s.IntervalP99 = time.Duration(p.digest.Quantile(0.99)) * time.Microsecond
	}
	return s
}

// Collector accumulates statistics about received datagrams. It is safe for
// concurrent use.
type Collector struct {
	datagrams atomic.Uint64
	bytes     atomic.Uint64

	packets       containers.SyncMap[proto.PacketID, *packetStats]
	errors        containers.SyncMap[string, *atomic.Uint64]
	unknownEvents containers.SyncMap[proto.EventCode, *atomic.Uint64]
}

// New returns a new, empty Collector.
func New() *Collector { return &Collector{} }

// ObserveDatagram records the arrival of a datagram, regardless of whether it
// can be decoded.
func (c *Collector) ObserveDatagram(size int) {
	c.datagrams.Add(1)
	c.bytes.Add(uint64(size))
}

// ObservePacket records a successfully decoded packet received at at.
func (c *Collector) ObservePacket(id proto.PacketID, size int, at time.Time) {
	c.packets.LoadOrCreate(id, newPacketStats).observe(size, at)
}

// ObserveError records a decode error.
func (c *Collector) ObserveError(err error) {
	increment(&c.errors, ErrorKind(err))
}

// ObserveUnknownEvent records an event carrying a code with no decoder.
func (c *Collector) ObserveUnknownEvent(code proto.EventCode) {
	increment(&c.unknownEvents, code)
}

func increment[K comparable](m *containers.SyncMap[K, *atomic.Uint64], key K) {
	m.LoadOrCreate(key, func() *atomic.Uint64 { return new(atomic.Uint64) }).Add(1)
}

// PacketSnapshot holds statistics for a single packet id.
type PacketSnapshot struct {
	ID          proto.PacketID
	Count       uint64
	Bytes       uint64
	IntervalP50 time.Duration
	IntervalP99 time.Duration
}

// Snapshot is a point-in-time copy of a Collector.
type Snapshot struct {
	Datagrams     uint64
	Bytes         uint64
	Packets       []PacketSnapshot
	Errors        map[string]uint64
	UnknownEvents map[string]uint64
}

// Snapshot returns the current statistics. Packets are sorted by id.
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		Datagrams:     c.datagrams.Load(),
		Bytes:         c.bytes.Load(),
		Errors:        map[string]uint64{},
		UnknownEvents: map[string]uint64{},
	}

	c.packets.Range(func(id proto.PacketID, p *packetStats) bool {
		s.Packets = append(s.Packets, p.snapshot(id))
		return true
	})
	slices.SortFunc(s.Packets, func(a, b PacketSnapshot) int { return int(a.ID) - int(b.ID) })

	c.errors.Range(func(kind string, v *atomic.Uint64) bool {
		s.Errors[kind] = v.Load()
		return true
	})
	c.unknownEvents.Range(func(code proto.EventCode, v *atomic.Uint64) bool {
		s.UnknownEvents[code.String()] = v.Load()
		return true
	})
	return s
}

// WriteText writes s in a human readable form to w.
func (s Snapshot) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "datagrams %d\nbytes %d\n", s.Datagrams, s.Bytes)
	for _, p := range s.Packets {
		fmt.Fprintf(&b, "packet %s count=%d bytes=%d p50=%s p99=%s\n",
			p.ID, p.Count, p.Bytes, p.IntervalP50, p.IntervalP99)
	}
	for _, kind := range sortedKeys(s.Errors) {
		fmt.Fprintf(&b, "error %s %d\n", kind, s.Errors[kind])
	}
	for _, code := range sortedKeys(s.UnknownEvents) {
		fmt.Fprintf(&b, "unknown_event %s %d\n", code, s.UnknownEvents[code])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

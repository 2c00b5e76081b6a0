// Package replay feeds previously recorded telemetry datagrams back to a
// consumer, either from a capture file or from a pcap dump of the game's UDP
// traffic.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/heyvito/f1telem/internal/capture"
)

// Datagram is a single replayed UDP payload.
type Datagram struct {
	ReceivedAt time.Time
	Payload    []byte
}

// Func receives each replayed datagram. Returning an error stops the replay,
// and the error is returned to the caller of the replay function.
type Func func(d Datagram) error

// Config controls how datagrams are emitted.
type Config struct {
	// Speed multiplies the pace at which datagrams were originally received.
	// 1 replays in real time, 2 twice as fast. Zero emits datagrams as fast as
	// they can be read.
	Speed float64
}

// Capture replays every record of a capture file read from r.
func Capture(ctx context.Context, r io.Reader, cfg Config, fn Func) error {
	reader, err := capture.NewReader(r)
	if err != nil {
		return err
	}

	p := pacer{speed: cfg.Speed}
	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err = p.wait(ctx, rec.ReceivedAt); err != nil {
			return err
		}
		if err = fn(Datagram{ReceivedAt: rec.ReceivedAt, Payload: rec.Payload}); err != nil {
			return err
		}
	}
}

// PCAP replays the payload of every UDP packet addressed to port found in
// the pcap dump read from r. Non-UDP traffic and traffic to other ports is
// skipped.
func PCAP(ctx context.Context, r io.Reader, port uint16, cfg Config, fn Func) error {
	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed reading pcap header: %w", err)
	}

	p := pacer{speed: cfg.Speed}
	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		data, ci, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed reading pcap packet: %w", err)
		}

		packet := gopacket.NewPacket(data, reader.LinkType(), gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok || uint16(udp.DstPort) != port || len(udp.Payload) == 0 {
			continue
		}

		if err = p.wait(ctx, ci.Timestamp); err != nil {
			return err
		}
		payload := make([]byte, len(udp.Payload))
		copy(payload, udp.Payload)
		if err = fn(Datagram{ReceivedAt: ci.Timestamp, Payload: payload}); err != nil {
			return err
		}
	}
}

// pacer sleeps between datagrams so that they are emitted with the same
// spacing, scaled by speed, with which they were recorded.
type pacer struct {
	speed     float64
	firstAt   time.Time
	startedAt time.Time
}

func (p *pacer) wait(ctx context.Context, at time.Time) error {
	if p.speed <= 0 {
		return nil
	}
	if p.firstAt.IsZero() {
		p.firstAt = at
		p.startedAt = time.Now()
		return nil
	}

	offset := time.Duration(float64(at.Sub(p.firstAt)) / p.speed)
	delay := time.Until(p.startedAt.Add(offset))
	if delay <= 0 {
		return nil
	}

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

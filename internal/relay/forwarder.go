// Package relay forwards raw telemetry datagrams to another host, so that
// several consumers can observe a single game session.
package relay

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultQueueSize is used by NewForwarder when queueSize is not positive.
const DefaultQueueSize = 1024

// Forwarder handles asynchronous forwarding of datagrams to a downstream UDP
// address. Datagrams are queued without blocking the caller; once the queue is
// full, new datagrams are dropped and accounted for.
type Forwarder struct {
	log         *zap.Logger
	conn        *net.UDPConn
	sealer      Sealer
	queue       chan []byte
	target      string
	logInterval time.Duration

	sent    atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewForwarder returns a Forwarder sending datagrams to target (host:port).
// sealer may be nil, in which case datagrams are relayed verbatim.
func NewForwarder(logger *zap.Logger, target string, sealer Sealer, queueSize int) (*Forwarder, error) {
	addr, err := net.ResolveUDPAddr("udp", target)
	if err != nil {
		return nil, fmt.Errorf("failed resolving relay target: %w", err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("failed creating relay connection: %w", err)
	}
	if sealer == nil {
		sealer, _ = NewSealer(nil)
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Forwarder{
		log:         logger.With(zap.String("facility", "relay"), zap.String("target", target)),
		conn:        conn,
		sealer:      sealer,
		queue:       make(chan []byte, queueSize),
		target:      target,
		logInterval: 10 * time.Second,
		done:        make(chan struct{}),
	}, nil
}

// Start begins the forwarding routine. It stops once ctx is cancelled or
// Close is called.
func (f *Forwarder) Start(ctx context.Context) {
	f.startOnce.Do(func() {
		ctx, f.cancel = context.WithCancel(ctx)
		go f.loop(ctx)
		f.log.Info("Relaying telemetry")
	})
}

func (f *Forwarder) loop(ctx context.Context) {
	defer close(f.done)
	ticker := time.NewTicker(f.logInterval)
	defer ticker.Stop()

	var failures uint64
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-f.queue:
			if err := f.send(data); err != nil {
				f.failed.Add(1)
				failures++
				lastErr = err
				continue
			}
			f.sent.Add(1)
		case <-ticker.C:
			if failures > 0 {
				f.log.Warn("Failed relaying datagrams",
					zap.Uint64("count", failures),
					zap.Error(lastErr))
				failures = 0
				lastErr = nil
			}
		}
	}
}

func (f *Forwarder) send(data []byte) error {
	sealed, err := f.sealer.Seal(data)
	if err != nil {
		return err
	}
	_, err = f.conn.Write(sealed)
	return err
}

// ForwardAsync queues a copy of data for forwarding. It never blocks.
func (f *Forwarder) ForwardAsync(data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)

	select {
	case f.queue <- cp:
	default:
		f.dropped.Add(1)
	}
}

// Sent returns how many datagrams were relayed.
func (f *Forwarder) Sent() uint64 { return f.sent.Load() }

// Dropped returns how many datagrams were discarded due to a full queue.
func (f *Forwarder) Dropped() uint64 { return f.dropped.Load() }

// Failed returns how many datagrams could not be written.
func (f *Forwarder) Failed() uint64 { return f.failed.Load() }

// Close stops the forwarding routine and closes the underlying connection.
// Queued datagrams not yet sent are discarded.
func (f *Forwarder) Close() error {
	var err error
	f.closeOnce.Do(func() {
		if f.cancel != nil {
			f.cancel()
			<-f.done
		}
		err = f.conn.Close()
	})
	return err
}

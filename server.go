package f1telem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/heyvito/f1telem/internal/canbus"
	"github.com/heyvito/f1telem/internal/capture"
	"github.com/heyvito/f1telem/internal/iputil"
	"github.com/heyvito/f1telem/internal/logutil"
	"github.com/heyvito/f1telem/internal/relay"
	"github.com/heyvito/f1telem/internal/replay"
	"github.com/heyvito/f1telem/internal/stats"
	"github.com/heyvito/f1telem/internal/store"
	"github.com/heyvito/f1telem/internal/wire"
	"github.com/heyvito/f1telem/proto"
)

// Server receives telemetry datagrams, decodes them, and distributes the
// resulting packets to the configured outputs and registered handlers.
type Server struct {
	opts  *Options
	log   *zap.Logger
	stats *stats.Collector
	now   func() time.Time

	listener wire.UDPListener
	status   *http.Server

	relay       *relay.Forwarder
	captureFile *os.File
	capture     *capture.Writer
	store       *store.Store
	can         *canbus.Forwarder
	canConn     net.Conn

	decodeWarnings *rate.Limiter
	lastSession    atomic.Uint64

	handlersMu sync.RWMutex
	handlers   []PacketHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// closeMu guards outputs against being used after Shutdown released them.
	closeMu sync.RWMutex
	closed  bool
}

// NewServer initializes a Server and every output enabled by opts. Nothing is
// received until Start is called.
func NewServer(opts *Options) (*Server, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:           opts,
		log:            opts.LogHandler.With(zap.String("facility", "server")),
		stats:          stats.New(),
		now:            time.Now,
		decodeWarnings: rate.NewLimiter(rate.Every(opts.DecodeWarningInterval), 1),
		ctx:            ctx,
		cancel:         cancel,
	}

	if err := s.setup(); err != nil {
		s.release()
		cancel()
		return nil, err
	}
	return s, nil
}

func (s *Server) setup() error {
	var err error
	logger := s.opts.LogHandler

	if !s.opts.DisableListener {
		s.listener, err = wire.NewUDPListener(logger, s.opts.ListenAddress, s.opts.ListenPort, s.opts.ReusePort, s)
		if err != nil {
			return fmt.Errorf("failed initializing listener: %w", err)
		}
	}

	if s.opts.RelayTarget != "" {
		sealer, err := relay.NewSealer(s.opts.RelayKey)
		if err != nil {
			return fmt.Errorf("failed initializing relay sealer: %w", err)
		}
		s.relay, err = relay.NewForwarder(logger, s.opts.RelayTarget, sealer, s.opts.RelayQueueSize)
		if err != nil {
			return err
		}
	}

	if s.opts.CapturePath != "" {
		s.captureFile, err = os.OpenFile(s.opts.CapturePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed creating capture file: %w", err)
		}
		s.capture, err = capture.NewWriter(s.captureFile)
		if err != nil {
			return fmt.Errorf("failed writing capture header: %w", err)
		}
	}

	if s.opts.StorePath != "" {
		s.store, err = store.Open(logger, s.opts.StorePath)
		if err != nil {
			return err
		}
	}

	if s.opts.CANInterface != "" {
		s.can, s.canConn, err = canbus.Dial(s.ctx, logger, s.opts.CANInterface)
		if err != nil {
			return err
		}
	}

	if s.opts.StatusAddress != "" {
		s.status = &http.Server{
			Addr:              s.opts.StatusAddress,
			Handler:           http.HandlerFunc(s.serveStatus),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return nil
}

// AddHandler registers h to receive every decoded packet.
func (s *Server) AddHandler(h PacketHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Start begins receiving datagrams and serving the status page, when those
// are enabled.
func (s *Server) Start() {
	if s.relay != nil {
		s.relay.Start(s.ctx)
	}

	if s.capture != nil {
		s.wg.Add(1)
		go s.flushCapture()
	}

	if s.listener != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.listener.Listen()
		}()

		if ip, err := iputil.GetDefaultIP(false); err != nil {
			s.log.Warn("Could not detect the address to configure in the game", zap.Error(err))
		} else {
			s.log.Info("Configure the game to send UDP telemetry to this host",
				zap.String("address", ip.String()),
				zap.Uint16("port", s.opts.ListenPort))
		}
	}

	if s.status != nil {
		go func() {
			s.log.Info("Serving status", zap.String("address", s.status.Addr))
			if err := s.status.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("Status server failed", zap.Error(err))
			}
		}()
	}
}

// Ready returns a channel closed once the telemetry listener is bound. When
// the listener is disabled, the returned channel is already closed.
func (s *Server) Ready() <-chan struct{} {
	if s.listener == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.listener.Ready()
}

// LocalAddr returns the address the telemetry listener is bound to, or nil.
func (s *Server) LocalAddr() *net.UDPAddr {
	if s.listener == nil {
		return nil
	}
	return s.listener.LocalAddr()
}

// Stats returns a snapshot of the traffic observed so far.
func (s *Server) Stats() stats.Snapshot { return s.stats.Snapshot() }

// Shutdown stops receiving datagrams and releases every output. It is safe
// to call this method multiple times.
func (s *Server) Shutdown() {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return
	}
	s.closed = true
	s.closeMu.Unlock()

	if s.listener != nil {
		s.listener.Shutdown()
	}
	if s.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.status.Shutdown(ctx); err != nil {
			s.log.Error("Failed stopping status server", zap.Error(err))
		}
		cancel()
	}
	s.cancel()
	s.wg.Wait()
	s.release()
}

func (s *Server) release() {
	if s.relay != nil {
		if err := s.relay.Close(); err != nil {
			s.log.Error("Failed closing relay", zap.Error(err))
		}
	}
	if s.capture != nil {
		if err := s.capture.Flush(); err != nil {
			s.log.Error("Failed flushing capture", zap.Error(err))
		}
	}
	if s.captureFile != nil {
		if err := s.captureFile.Close(); err != nil {
			s.log.Error("Failed closing capture", zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Error("Failed closing store", zap.Error(err))
		}
	}
	if s.canConn != nil {
		if err := s.canConn.Close(); err != nil {
			s.log.Error("Failed closing CAN connection", zap.Error(err))
		}
	}
}

func (s *Server) flushCapture() {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.capture.Flush(); err != nil {
				s.log.Error("Failed flushing capture", zap.Error(err))
			}
		}
	}
}

// HandleDatagram processes a datagram received from the network.
func (s *Server) HandleDatagram(data []byte, _ *net.UDPAddr) {
	s.ingest(data, s.now(), true)
}

// ReplayCapture feeds every datagram of a capture file through the server as
// if it had been received from the network. speed scales the original pace;
// zero replays as fast as possible.
func (s *Server) ReplayCapture(ctx context.Context, r io.Reader, speed float64) error {
	return replay.Capture(ctx, r, replay.Config{Speed: speed}, s.replayDatagram)
}

// ReplayPCAP feeds every UDP payload addressed to port found in a pcap dump
// through the server. A zero port uses Options.ListenPort.
func (s *Server) ReplayPCAP(ctx context.Context, r io.Reader, port uint16, speed float64) error {
	if port == 0 {
		port = s.opts.ListenPort
	}
	return replay.PCAP(ctx, r, port, replay.Config{Speed: speed}, s.replayDatagram)
}

func (s *Server) replayDatagram(d replay.Datagram) error {
	s.ingest(d.Payload, d.ReceivedAt, false)
	return nil
}

func (s *Server) ingest(data []byte, at time.Time, fromNetwork bool) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return
	}

	s.stats.ObserveDatagram(len(data))
	if s.relay != nil {
		s.relay.ForwardAsync(data)
	}
	if fromNetwork && s.capture != nil {
		if err := s.capture.Write(at, data); err != nil {
			s.log.Error("Failed capturing datagram", zap.Error(err))
		}
	}

	pkt, err := proto.Decode(data)
	if err != nil {
		s.stats.ObserveError(err)
		if s.decodeWarnings.Allow() {
			s.log.Warn("Discarding undecodable datagram",
				zap.Int("size", len(data)),
				zap.String("kind", stats.ErrorKind(err)),
				zap.Error(err))
		}
		return
	}

	s.stats.ObservePacket(pkt.Header.PacketID, len(data), at)
	s.trackSession(pkt.Header)

	switch p := pkt.Payload.(type) {
	case *proto.Event:
		s.handleEvent(pkt.Header, p)
	case *proto.CarTelemetryData:
		s.handlePlayerTelemetry(pkt.Header, p)
	}

	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()
	for _, h := range handlers {
		h.HandlePacket(pkt)
	}
}

func (s *Server) trackSession(h proto.Header) {
	if s.lastSession.Swap(h.SessionUID) != h.SessionUID {
		s.log.Info("Receiving session", logutil.Header(h))
	}

	if s.store == nil {
		return
	}
	if err := s.store.RecordSession(s.ctx, h); err != nil {
		s.log.Error("Failed recording session", zap.Error(err))
	}
}

func (s *Server) handleEvent(h proto.Header, ev *proto.Event) {
	if ev.IsUnknown() {
		s.stats.ObserveUnknownEvent(ev.Code)
	}

	if s.store == nil {
		return
	}
	if _, err := s.store.RecordEvent(s.ctx, h, ev); err != nil {
		s.log.Error("Failed recording event",
			zap.Stringer("code", ev.Code),
			zap.Error(err))
	}
}

func (s *Server) handlePlayerTelemetry(h proto.Header, data *proto.CarTelemetryData) {
	if s.store == nil && s.can == nil {
		return
	}

	t, err := data.Player(h)
	if err != nil {
		s.log.Debug("Ignoring player telemetry", logutil.Header(h), zap.Error(err))
		return
	}

	if s.store != nil {
		if err = s.store.RecordPlayerSample(s.ctx, h, t); err != nil {
			s.log.Error("Failed recording player sample", zap.Error(err))
		}
	}
	if s.can != nil {
		// Failures are accounted by the forwarder and shown in the status page.
		_ = s.can.Send(s.ctx, t)
	}
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	str := strings.Builder{}
	str.WriteString("Telemetry\n")
	str.WriteString("==========================\n")
	if addr := s.LocalAddr(); addr != nil {
		str.WriteString(fmt.Sprintf("Address: %s\n", addr))
	}
	_ = s.stats.Snapshot().WriteText(&str)

	if s.relay != nil {
		str.WriteString("\nRelay\n")
		str.WriteString(fmt.Sprintf("  sent=%d dropped=%d failed=%d\n", s.relay.Sent(), s.relay.Dropped(), s.relay.Failed()))
	}

	if s.can != nil {
		str.WriteString("\nCAN\n")
		str.WriteString(fmt.Sprintf("  sent=%d failed=%d\n", s.can.Sent(), s.can.Failed()))
	}

	if s.store != nil {
		str.WriteString("\nSessions\n")
		sessions, err := s.store.Sessions(r.Context())
		if err != nil {
			str.WriteString("  error: " + err.Error() + "\n")
		}
		for _, sess := range sessions {
			str.WriteString(fmt.Sprintf("  - %d format=%d frame=%d time=%.3f\n",
				sess.UID, sess.Format, sess.LastFrame, sess.LastSessionTime))
		}
	}

	w.Header().Add("Content-Type", "text/plain")
	_, _ = w.Write([]byte(str.String()))
}

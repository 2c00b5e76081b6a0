package wire

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MaxDatagramSize is the size of the buffer used to read datagrams. It is
// larger than any packet emitted by the game.
const MaxDatagramSize = 4096

// UDPListenerDelegate implements methods that allow handling of incoming
// datagrams from a UDPListener.
type UDPListenerDelegate interface {
	// HandleDatagram is invoked for every datagram read. data is only valid
	// during the call; implementations retaining it must copy it.
	HandleDatagram(data []byte, source *net.UDPAddr)
}

// UDPListener represents a component responsible for reading telemetry
// datagrams sent by the game.
type UDPListener interface {
	// Listen starts the listener on the calling routine, blocking until it is
	// shutdown.
	Listen()

	// Ready returns a channel that is closed once the listener has bound its
	// socket for the first time.
	Ready() <-chan struct{}

	// LocalAddr returns the address the listener is bound to, or nil in case
	// it is not bound.
	LocalAddr() *net.UDPAddr

	// Shutdown signals the listener to shut down, unblocking the routine that
	// invoked Listen. It is safe to call this method multiple times.
	Shutdown()
}

// NewUDPListener returns a new UDPListener bound to the provided address and
// port. When reuse is set, SO_REUSEADDR and SO_REUSEPORT are applied to the
// socket, allowing other consumers to bind the same port.
func NewUDPListener(logger *zap.Logger, address string, port uint16, reuse bool, delegate UDPListenerDelegate) (UDPListener, error) {
	network := "udp4"
	ip := net.ParseIP(address)
	if ip != nil && ip.To4() == nil {
		network = "udp6"
	}

	addr, err := net.ResolveUDPAddr(network, net.JoinHostPort(address, fmt.Sprint(port)))
	if err != nil {
		return nil, fmt.Errorf("failed resolving %s address: %w", network, err)
	}

	return &udpListener{
		log:      logger.With(zap.String("facility", "udp_listener"), zap.String("network", network)),
		network:  network,
		address:  addr,
		reuse:    reuse,
		delegate: delegate,
		ready:    make(chan struct{}),
	}, nil
}

type udpListener struct {
	log       *zap.Logger
	address   *net.UDPAddr
	network   string
	reuse     bool
	delegate  UDPListenerDelegate
	stopping  atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once

	mu       sync.Mutex
	listener *net.UDPConn
}

func (u *udpListener) Ready() <-chan struct{} { return u.ready }

func (u *udpListener) LocalAddr() *net.UDPAddr {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.listener == nil {
		return nil
	}
	return u.listener.LocalAddr().(*net.UDPAddr)
}

func (u *udpListener) Listen() {
	for !u.stopping.Load() {
		if !u.makeListener() {
			continue
		}
		u.readLoop()
	}
}

func (u *udpListener) listenConfig() net.ListenConfig {
	if !u.reuse {
		return net.ListenConfig{}
	}
	return net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var opErr error
			err := c.Control(func(fd uintptr) {
				if opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); opErr != nil {
					return
				}
				opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return opErr
		},
	}
}

func (u *udpListener) makeListener() bool {
	backoff := 2 * time.Second
	lc := u.listenConfig()
	conn, err := lc.ListenPacket(context.Background(), u.network, u.address.String())
	if err != nil {
		u.log.Error("Failed initializing telemetry listener",
			zap.Duration("backoff", backoff),
			zap.Error(err))
		time.Sleep(backoff)
		return false
	}

	u.mu.Lock()
	u.listener = conn.(*net.UDPConn)
	u.mu.Unlock()

	// Shutdown may have raced with the bind above.
	if u.stopping.Load() {
		_ = conn.Close()
		return false
	}

	u.readyOnce.Do(func() { close(u.ready) })
	u.log.Info("Now listening for telemetry",
		zap.String("address", conn.LocalAddr().String()))
	return true
}

func (u *udpListener) readLoop() {
	buf := make([]byte, MaxDatagramSize)
	for !u.stopping.Load() {
		n, addr, err := u.listener.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}

			u.log.Error("Error reading datagram", zap.Error(err))
			continue
		}

		u.delegate.HandleDatagram(buf[:n], addr)
	}
}

func (u *udpListener) Shutdown() {
	if u.stopping.Swap(true) {
		return
	}

	u.mu.Lock()
	listener := u.listener
	u.mu.Unlock()
	if listener == nil {
		return
	}

	if err := listener.Close(); err != nil {
		if !errors.Is(err, net.ErrClosed) {
			u.log.Error("Failed closing telemetry listener", zap.Error(err))
		}
	}
}

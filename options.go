package f1telem

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultPort is the port the game sends telemetry to unless configured
// otherwise.
const DefaultPort = 20777

// Options represents a set of options to tune and configure the current
// server.
type Options struct {
	// ListenAddress represents the address to bind the telemetry listener to.
	// Defaults to 0.0.0.0.
	ListenAddress string

	// ListenPort represents the UDP port the game has been configured to send
	// telemetry to. Defaults to DefaultPort.
	ListenPort uint16

	// ReusePort sets SO_REUSEADDR and SO_REUSEPORT on the listener socket,
	// allowing other applications to also bind ListenPort. Defaults to false.
	ReusePort bool

	// DisableListener prevents the server from binding a socket at all. This
	// is useful when datagrams are only fed through the Replay functions.
	// Defaults to false.
	DisableListener bool

	// StatusAddress is the host:port where a plain-text status page is
	// served. An empty string disables it. Defaults to a blank string.
	StatusAddress string

	// CapturePath indicates a file where every received datagram will be
	// appended to, in the capture format. Datagrams fed through Replay
	// functions are not captured. An empty string disables capturing.
	CapturePath string

	// StorePath indicates a SQLite database where sessions, events and player
	// samples are recorded. An empty string disables recording.
	StorePath string

	// CANInterface is the name of a SocketCAN interface (e.g. vcan0) to
	// where the player's telemetry is transmitted. An empty string disables
	// CAN output.
	CANInterface string

	// RelayTarget is a host:port to which every received datagram is
	// forwarded. An empty string disables relaying.
	RelayTarget string

	// RelayKey comprises a 16-byte key used to seal relayed datagrams. When
	// empty, datagrams are relayed as received.
	RelayKey []byte

	// RelayQueueSize is the amount of datagrams buffered for relaying before
	// new ones are dropped. Defaults to 1024.
	RelayQueueSize int

	// DecodeWarningInterval is the minimum interval between warnings emitted
	// for datagrams that could not be decoded. Every failure is still
	// accounted for in the status page. Defaults to 5 seconds.
	DecodeWarningInterval time.Duration

	// LogHandler represents a zap logger that will be used by this library.
	// Defaults to a noop logger, which will discard all messages.
	LogHandler *zap.Logger
}

func (o *Options) normalize() error {
	if len(o.RelayKey) != 0 && len(o.RelayKey) != 16 {
		return fmt.Errorf("RelayKey must have 16 bytes")
	}

	if len(o.RelayKey) != 0 && o.RelayTarget == "" {
		return fmt.Errorf("RelayKey requires RelayTarget")
	}

	if o.ListenAddress == "" {
		o.ListenAddress = "0.0.0.0"
	}

	if o.ListenPort == 0 {
		o.ListenPort = DefaultPort
	}

	if o.RelayQueueSize == 0 {
		o.RelayQueueSize = 1024
	}

	if o.DecodeWarningInterval == 0 {
		o.DecodeWarningInterval = 5 * time.Second
	}

	if o.LogHandler == nil {
		o.LogHandler = zap.NewNop()
	}

	return nil
}

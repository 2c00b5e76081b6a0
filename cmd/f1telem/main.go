package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/heyvito/f1telem"
	"github.com/heyvito/f1telem/internal/logutil"
	"github.com/heyvito/f1telem/proto"
)

func main() {
	var (
		listen      = flag.String("listen", "0.0.0.0", "address to receive telemetry on")
		port        = flag.Uint("port", f1telem.DefaultPort, "UDP port the game sends telemetry to")
		reuse       = flag.Bool("reuse", false, "allow other applications to bind the same port")
		status      = flag.String("status", ":2727", "address to serve the status page on; empty disables it")
		capturePath = flag.String("capture", "", "file to capture received datagrams to")
		storePath   = flag.String("store", "", "SQLite database to record sessions to")
		canIface    = flag.String("can", "", "SocketCAN interface to transmit player telemetry to")
		relayTarget = flag.String("relay", "", "host:port to relay datagrams to")
		relayKey    = flag.String("relay-key", "", "hex-encoded 16-byte key used to seal relayed datagrams")
		replayPath  = flag.String("replay", "", "capture file to replay instead of listening")
		pcapPath    = flag.String("replay-pcap", "", "pcap dump to replay instead of listening")
		speed       = flag.Float64("replay-speed", 1, "replay pace multiplier; 0 replays as fast as possible")
		debug       = flag.Bool("debug", false, "log every decoded packet")
	)
	flag.Parse()

	var logger *zap.Logger
	var err error
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.DisableCaller = true
	if !*debug {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err = config.Build()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	var key []byte
	if *relayKey != "" {
		if key, err = hex.DecodeString(*relayKey); err != nil {
			logger.Fatal("Invalid relay key", zap.Error(err))
		}
	}

	replaying := *replayPath != "" || *pcapPath != ""
	if *port > 0xFFFF {
		logger.Fatal("Invalid port", zap.Uint("port", *port))
	}

	opts := f1telem.Options{
		ListenAddress:   *listen,
		ListenPort:      uint16(*port),
		ReusePort:       *reuse,
		DisableListener: replaying,
		StatusAddress:   *status,
		CapturePath:     *capturePath,
		StorePath:       *storePath,
		CANInterface:    *canIface,
		RelayTarget:     *relayTarget,
		RelayKey:        key,
		LogHandler:      logger,
	}
	srv, err := f1telem.NewServer(&opts)
	if err != nil {
		logger.Fatal("Failed initializing server", zap.Error(err))
	}
	srv.AddHandler(packetLogger(logger.With(zap.String("facility", "packets"))))
	srv.Start()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if replaying {
		if err = runReplay(ctx, srv, *replayPath, *pcapPath, *speed); err != nil && ctx.Err() == nil {
			logger.Error("Replay failed", zap.Error(err))
		}
	} else {
		<-ctx.Done()
	}
	srv.Shutdown()
}

func runReplay(ctx context.Context, srv *f1telem.Server, capturePath, pcapPath string, speed float64) error {
	path := capturePath
	if path == "" {
		path = pcapPath
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if capturePath != "" {
		return srv.ReplayCapture(ctx, f, speed)
	}
	return srv.ReplayPCAP(ctx, f, 0, speed)
}

func packetLogger(logger *zap.Logger) f1telem.PacketHandlerFunc {
	return func(p *proto.Packet) {
		ev, ok := p.Payload.(*proto.Event)
		if !ok {
			logger.Debug("Packet", logutil.Header(p.Header), zap.Int("size", p.RequiredSize()))
			return
		}

		fields := []zap.Field{logutil.Header(p.Header), zap.Stringer("code", ev.Code)}
		switch d := ev.Details.(type) {
		case *proto.Buttons:
			// Sent continuously while any button is held.
			logger.Debug("Buttons", append(fields, logutil.StringerArr("pressed", d.Flags.Pressed()))...)
			return
		case *proto.UnknownEvent:
			fields = append(fields, zap.String("data", hex.EncodeToString(d.Data)))
		default:
			fields = append(fields, zap.String("details", fmt.Sprintf("%+v", d)))
		}
		logger.Info("Event", fields...)
	}
}

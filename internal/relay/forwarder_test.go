package relay

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func listenUDP(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readOne(t *testing.T, conn *net.UDPConn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 2048)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestForwarder_Relays(t *testing.T) {
	downstream := listenUDP(t)

	f, err := NewForwarder(zap.NewNop(), downstream.LocalAddr().String(), nil, 4)
	require.NoError(t, err)
	f.Start(context.Background())
	defer f.Close()

	data := []byte("telemetry")
	f.ForwardAsync(data)
	data[0] = 'X'

	assert.Equal(t, []byte("telemetry"), readOne(t, downstream))
	assert.Eventually(t, func() bool { return f.Sent() == 1 }, time.Second, 5*time.Millisecond)
}

func TestForwarder_Sealed(t *testing.T) {
	downstream := listenUDP(t)
	key := []byte("0123456789abcdef")
	sealer, err := NewSealer(key)
	require.NoError(t, err)

	f, err := NewForwarder(zap.NewNop(), downstream.LocalAddr().String(), sealer, 4)
	require.NoError(t, err)
	f.Start(context.Background())
	defer f.Close()

	f.ForwardAsync([]byte("secret"))
	sealed := readOne(t, downstream)
	assert.NotEqual(t, []byte("secret"), sealed)

	receiver, err := NewSealer(key)
	require.NoError(t, err)
	plain, err := receiver.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), plain)
}

func TestForwarder_DropsWhenFull(t *testing.T) {
	downstream := listenUDP(t)
	f, err := NewForwarder(zap.NewNop(), downstream.LocalAddr().String(), nil, 2)
	require.NoError(t, err)
	defer f.Close()

	// Not started: the queue is never drained.
	for i := 0; i < 5; i++ {
		f.ForwardAsync([]byte{byte(i)})
	}
	assert.Equal(t, uint64(3), f.Dropped())
}

func TestForwarder_CloseIsIdempotent(t *testing.T) {
	downstream := listenUDP(t)
	f, err := NewForwarder(zap.NewNop(), downstream.LocalAddr().String(), nil, 0)
	require.NoError(t, err)
	f.Start(context.Background())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

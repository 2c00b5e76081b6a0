package wire

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDelegate struct {
	mu   sync.Mutex
	data [][]byte
	got  chan struct{}
}

func (r *recordingDelegate) HandleDatagram(data []byte, _ *net.UDPAddr) {
	r.mu.Lock()
	r.data = append(r.data, append([]byte(nil), data...))
	r.mu.Unlock()
	r.got <- struct{}{}
}

func startListener(t *testing.T, reuse bool, d UDPListenerDelegate) UDPListener {
	t.Helper()
	l, err := NewUDPListener(zap.NewNop(), "127.0.0.1", 0, reuse, d)
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		l.Listen()
		close(done)
	}()
	t.Cleanup(func() {
		l.Shutdown()
		<-done
	})

	select {
	case <-l.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not become ready")
	}
	return l
}

func TestUDPListener_Receives(t *testing.T) {
	d := &recordingDelegate{got: make(chan struct{}, 4)}
	l := startListener(t, true, d)

	conn, err := net.DialUDP("udp4", nil, l.LocalAddr())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("hello"))
	require.NoError(t, err)

	select {
	case <-d.got:
	case <-time.After(5 * time.Second):
		t.Fatal("datagram not delivered")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, [][]byte{[]byte("hello")}, d.data)
}

func TestUDPListener_ShutdownIsIdempotent(t *testing.T) {
	d := &recordingDelegate{got: make(chan struct{}, 1)}
	l := startListener(t, false, d)
	assert.NotNil(t, l.LocalAddr())
	l.Shutdown()
	l.Shutdown()
}

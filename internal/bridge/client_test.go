package bridge

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/bridge/protocol"
	"github.com/quarrylab/quarry/internal/config"
)

// spawns a minimal quarryd stand-in that completes the handshake and then
// reads messages without ever answering them.
func silentBackend(t *testing.T) config.BackendConfig {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		sc, err := ln.Accept()
		if err != nil {
			return
		}
		conn := newConnection(sc)
		msg, err := conn.Receive()
		if err != nil || msg.Type != protocol.TypeHello {
			return
		}
		ok, _ := protocol.NewMessage(protocol.TypeHelloOK, nil)
		conn.Send(ok)
		for {
			if _, err := conn.Receive(); err != nil {
				return
			}
		}
	}()

	return config.BackendConfig{
		Host:           "127.0.0.1",
		Port:           ln.Addr().(*net.TCPAddr).Port,
		ConnectTimeout: 5,
		InvokeTimeout:  30,
	}
}

func TestCloseUnblocksPendingInvoke(t *testing.T) {
	c := NewClient(silentBackend(t))
	require.NoError(t, c.Connect(context.Background()))

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Invoke(context.Background(), "get_state", nil)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.pending) == 1
	}, time.Second, 5*time.Millisecond, "command registered as pending")

	require.NoError(t, c.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("invoke still blocked after close")
	}

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.pending) == 0
	}, time.Second, 5*time.Millisecond, "unblocked invoke cleans up its entry")
}

func TestInvokeAfterCloseNotConnected(t *testing.T) {
	c := NewClient(silentBackend(t))
	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Close())

	_, err := c.Invoke(context.Background(), "get_state", nil)
	assert.ErrorIs(t, err, ErrNotConnected)
}

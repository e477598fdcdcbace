package stream

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConnection(h *WSHandler, userID int64) *wsConnection {
	ctx, cancel := context.WithCancel(context.Background())
	c := &wsConnection{
		id:     newConnectionID(userID),
		userID: userID,
		send:   make(chan []byte, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	h.mu.Lock()
	h.connections[c.id] = c
	h.mu.Unlock()
	return c
}

func TestSendAfterDisconnect(t *testing.T) {
	h := NewWSHandler(nil, nil, testLogger())
	c := newTestConnection(h, 1)

	h.disconnect(c)

	// relay or a history writer may still hold the connection; their sends
	// must become no-ops, not panics
	require.NotPanics(t, func() {
		h.sendJSON(c, map[string]interface{}{"type": "generation_update"})
	})
	assert.Error(t, c.ctx.Err())
	assert.Len(t, c.send, 0)
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestDisconnectIsIdempotent(t *testing.T) {
	h := NewWSHandler(nil, nil, testLogger())
	c := newTestConnection(h, 1)

	require.NotPanics(t, func() {
		h.disconnect(c)
		h.disconnect(c)
	})
	assert.Equal(t, 0, h.ConnectionCount())
}

func TestSendDropsWhenBufferFull(t *testing.T) {
	h := NewWSHandler(nil, nil, testLogger())
	c := newTestConnection(h, 1)

	h.sendJSON(c, map[string]interface{}{"type": "pong"})
	require.NotPanics(t, func() {
		h.sendJSON(c, map[string]interface{}{"type": "pong"})
	})
	assert.Len(t, c.send, 1)
}

// internal/websocket/client_test.go
package websocket

import (
	"testing"

	wstypes "tracksafe-service/internal/domain/websocket"

	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	hub := NewHub(nil, nil)
	return NewClient(hub, nil, &ClientAuth{
		AccountID: "acc-1",
		SessionID: "sess-1",
		Email:     "user@example.com",
	})
}

func TestSendMessageOverflowDropsClient(t *testing.T) {
	client := newTestClient()
	msg := wstypes.NewMessage(wstypes.EventTypePong, nil)

	// No reader on the send channel; well past the buffer must not panic.
	for i := 0; i < 300; i++ {
		client.SendMessage(msg)
	}

	select {
	case <-client.ctx.Done():
	default:
		t.Fatal("overflowed client should be cancelled for disconnect")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	client := newTestClient()

	client.Close()
	client.Close()

	// Sends after close are dropped, not panics.
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
	require.False(t, client.enqueue([]byte("{}")))
}

func TestOverflowThenCloseDoesNotDoubleClose(t *testing.T) {
	client := newTestClient()
	msg := wstypes.NewMessage(wstypes.EventTypePong, nil)

	for i := 0; i < 300; i++ {
		client.SendMessage(msg)
	}

	// The hub unregisters the client after the pumps exit.
	client.Close()
	client.Close()
}

package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toaster/internal/core/toast"
)

func dialStream(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/toasts/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) StreamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil reads snapshots until one satisfies ok. Snapshots are coalesced,
// so intermediate states may be skipped.
func readUntil(t *testing.T, conn *websocket.Conn, ok func([]toast.Toast) bool) []toast.Toast {
	t.Helper()
	for {
		msg := readMsg(t, conn)
		if msg.Type == MsgSnapshot && ok(msg.Toasts) {
			return msg.Toasts
		}
	}
}

func TestStream_InitialSnapshot(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.Notify(toast.Payload{Title: "before connect"})

	conn := dialStream(t, srv)

	msg := readMsg(t, conn)
	assert.Equal(t, MsgSnapshot, msg.Type)
	require.Len(t, msg.Toasts, 1)
	assert.Equal(t, "before connect", msg.Toasts[0].Title)
}

func TestStream_EmptyInitialSnapshot(t *testing.T) {
	srv, _, _ := newTestServer(t)

	conn := dialStream(t, srv)

	msg := readMsg(t, conn)
	assert.Equal(t, MsgSnapshot, msg.Type)
	assert.NotNil(t, msg.Toasts)
	assert.Empty(t, msg.Toasts)
}

func TestStream_ReceivesLaterSnapshots(t *testing.T) {
	srv, store, _ := newTestServer(t)
	conn := dialStream(t, srv)
	readMsg(t, conn)

	h := store.Notify(toast.Payload{Title: "Payment failed", Variant: toast.VariantDestructive})
	got := readUntil(t, conn, func(ts []toast.Toast) bool { return len(ts) == 1 })
	assert.Equal(t, h.ID, got[0].ID)
	assert.True(t, got[0].Open)

	h.Dismiss()
	got = readUntil(t, conn, func(ts []toast.Toast) bool { return len(ts) == 1 && !ts[0].Open })
	assert.Equal(t, toast.VariantDestructive, got[0].Variant)
}

func TestStream_ClientCommands(t *testing.T) {
	srv, store, _ := newTestServer(t)
	conn := dialStream(t, srv)
	readMsg(t, conn)

	require.NoError(t, conn.WriteJSON(StreamMessage{
		Type:    MsgNotify,
		Payload: &toast.Payload{Title: "Application sent"},
	}))
	got := readUntil(t, conn, func(ts []toast.Toast) bool { return len(ts) == 1 })
	assert.Equal(t, "Application sent", got[0].Title)

	require.NoError(t, conn.WriteJSON(StreamMessage{Type: MsgDismiss, ID: got[0].ID}))
	readUntil(t, conn, func(ts []toast.Toast) bool { return len(ts) == 1 && !ts[0].Open })

	assert.Equal(t, 1, store.PendingExpiries())
}

func TestStream_InvalidCommand(t *testing.T) {
	srv, _, _ := newTestServer(t)
	conn := dialStream(t, srv)
	readMsg(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"explode"}`)))

	msg := readMsg(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "unknown message type")
}

func TestStream_DisconnectUnregisters(t *testing.T) {
	srv, _, _ := newTestServer(t)
	conn := dialStream(t, srv)
	readMsg(t, conn)

	assert.Equal(t, 1, srv.StreamCount())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	assert.Eventually(t, func() bool { return srv.StreamCount() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestStream_CloseStreams(t *testing.T) {
	srv, _, _ := newTestServer(t)
	conn := dialStream(t, srv)
	readMsg(t, conn)

	srv.closeStreams()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/pkg/randid"
)

// WebSocket timing, following the gorilla chat example.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size.
	maxMessageSize = 64 * 1024
)

// Stream message types.
const (
	MsgSnapshot   = "snapshot"
	MsgNotify     = "notify"
	MsgDismiss    = "dismiss"
	MsgDismissAll = "dismiss_all"
	MsgError      = "error"
)

// StreamMessage is the envelope for both directions of /toasts/stream.
// The server sends snapshot and error messages; clients may send notify,
// dismiss and dismiss_all.
type StreamMessage struct {
	Type    string         `json:"type"`
	Toasts  []toast.Toast  `json:"toasts"`
	ID      string         `json:"id,omitempty"`
	Payload *toast.Payload `json:"payload,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// streamClient is one websocket subscriber. Snapshots are coalesced: a
// slow client skips intermediate states and always receives the latest.
type streamClient struct {
	id   string
	conn *websocket.Conn
	log  zerolog.Logger

	mu       sync.Mutex
	latest   []toast.Toast
	pending  bool
	received bool
	errs     []string

	signal    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newStreamClient(conn *websocket.Conn, log zerolog.Logger) *streamClient {
	id := randid.Generate(8)
	return &streamClient{
		id:     id,
		conn:   conn,
		log:    log.With().Str("client_id", id).Logger(),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// push is the store listener. It must not block.
func (c *streamClient) push(toasts []toast.Toast) {
	c.mu.Lock()
	c.latest = toasts
	c.pending = true
	c.received = true
	c.mu.Unlock()
	c.wake()
}

// seed queues the initial snapshot unless a newer one already arrived.
func (c *streamClient) seed(toasts []toast.Toast) {
	c.mu.Lock()
	if !c.received {
		c.latest = toasts
		c.pending = true
	}
	c.mu.Unlock()
	c.wake()
}

func (c *streamClient) pushError(msg string) {
	c.mu.Lock()
	c.errs = append(c.errs, msg)
	c.mu.Unlock()
	c.wake()
}

func (c *streamClient) wake() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}

func (c *streamClient) take() (toasts []toast.Toast, ok bool, errs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	toasts, ok, errs = c.latest, c.pending, c.errs
	c.latest, c.pending, c.errs = nil, false, nil
	return toasts, ok, errs
}

func (c *streamClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin allows requests without an Origin header, origins whose scheme
// and host equal an allowed entry ("*" allows any), and otherwise only
// same-host origins. An entry without a port matches any port on its host.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if slices.Contains(s.cfg.AllowedOrigins, "*") {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	for _, entry := range s.cfg.AllowedOrigins {
		if originMatches(u, entry) {
			return true
		}
	}

	return strings.EqualFold(u.Host, r.Host)
}

func originMatches(origin *url.URL, entry string) bool {
	allowed, err := url.Parse(entry)
	if err != nil || allowed.Host == "" {
		return false
	}
	if !strings.EqualFold(origin.Scheme, allowed.Scheme) {
		return false
	}
	if !strings.EqualFold(origin.Hostname(), allowed.Hostname()) {
		return false
	}
	return allowed.Port() == "" || origin.Port() == allowed.Port()
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.log.Warn().Ctx(r.Context()).Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newStreamClient(conn, s.log)
	s.streams.Set(c.id, c)

	bridge := s.store.Bridge(c.push)
	c.seed(bridge.Toasts())

	c.log.Debug().Msg("stream connected")

	go c.writePump()
	c.readPump(bridge, s.allowNotify)

	bridge.Close()
	s.streams.Delete(c.id)
	c.close()

	c.log.Debug().Msg("stream disconnected")
}

// readPump reads client commands until the connection fails or closes.
// Commands are dispatched from this goroutine, never from the listener.
func (c *streamClient) readPump(bridge *toast.Bridge, allowNotify func() bool) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				c.log.Warn().Err(err).Msg("stream read error")
			}
			return
		}

		var msg StreamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.pushError("invalid message: " + err.Error())
			continue
		}

		switch msg.Type {
		case MsgNotify:
			if msg.Payload == nil {
				c.pushError("notify requires a payload")
				continue
			}
			if !allowNotify() {
				c.pushError("rate limited")
				continue
			}
			bridge.Notify(*msg.Payload)
		case MsgDismiss:
			if msg.ID == "" {
				c.pushError("dismiss requires an id; use dismiss_all")
				continue
			}
			bridge.Dismiss(msg.ID)
		case MsgDismissAll:
			bridge.DismissAll()
		default:
			c.pushError("unknown message type: " + msg.Type)
		}
	}
}

// writePump sends queued snapshots and keepalive pings. It owns all writes
// to the connection and closes it on exit.
func (c *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case <-c.signal:
			toasts, ok, errs := c.take()
			for _, e := range errs {
				if !c.write(StreamMessage{Type: MsgError, Error: e}) {
					return
				}
			}
			if ok && !c.write(StreamMessage{Type: MsgSnapshot, Toasts: nonNil(toasts)}) {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *streamClient) write(msg StreamMessage) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log.Debug().Err(err).Msg("stream write error")
		return false
	}
	return true
}

func nonNil(toasts []toast.Toast) []toast.Toast {
	if toasts == nil {
		return []toast.Toast{}
	}
	return toasts
}

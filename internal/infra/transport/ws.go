// Package transport provides the websocket transport for shared sessions.
// The host serves an endpoint guests dial into; JSON envelopes flow both
// ways.
package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/broadcast"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session/protocol"
)

const (
	writeTimeout = 5 * time.Second
	inboxBuffer  = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HostServer accepts guest connections and implements the host side of
// the session transport: Send fans out to every connected guest through
// the broadcast hub, Inbox aggregates inbound guest messages.
type HostServer struct {
	hub   *broadcast.Hub
	inbox chan protocol.Envelope

	mu     sync.Mutex
	closed bool
}

// NewHostServer creates a host transport.
func NewHostServer() *HostServer {
	return &HostServer{
		hub:   broadcast.NewHub(),
		inbox: make(chan protocol.Envelope, inboxBuffer),
	}
}

// Handler returns the HTTP handler guests connect to.
func (h *HostServer) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			zlog.Debug().Msgf("websocket upgrade: %v", err)
			return
		}
		h.serveConn(conn)
	})
}

// serveConn subscribes the connection to outbound broadcasts and pumps
// its inbound messages into the shared inbox.
func (h *HostServer) serveConn(conn *websocket.Conn) {
	stream := &connStream{conn: conn}
	subID := h.hub.Subscribe(stream)
	defer func() {
		h.hub.Unsubscribe(subID)
		conn.Close()
	}()

	zlog.Debug().Msgf("guest connected: remote=%s", conn.RemoteAddr())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			zlog.Debug().Msgf("guest disconnected: remote=%s err=%v", conn.RemoteAddr(), err)
			return
		}

		env, err := protocol.Decode(data)
		if err != nil {
			zlog.Debug().Msgf("drop undecodable message: %v", err)
			continue
		}

		h.mu.Lock()
		closed := h.closed
		h.mu.Unlock()
		if closed {
			return
		}

		select {
		case h.inbox <- env:
		default:
			zlog.Warn().Msgf("host inbox full, dropping: type=%s", env.Type)
		}
	}
}

// Send broadcasts an envelope to all connected guests.
func (h *HostServer) Send(env protocol.Envelope) error {
	h.hub.Broadcast(&env)
	return nil
}

// Inbox returns the aggregated guest message channel.
func (h *HostServer) Inbox() <-chan protocol.Envelope {
	return h.inbox
}

// Close drops all guest subscriptions.
func (h *HostServer) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.hub.Close()
	return nil
}

// connStream adapts a websocket connection to the broadcast hub.
type connStream struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *connStream) Send(env *protocol.Envelope) error {
	data, err := protocol.Encode(*env)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// GuestClient is a guest's connection to a session host.
type GuestClient struct {
	conn  *websocket.Conn
	inbox chan protocol.Envelope

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Dial connects to a session host.
func Dial(ctx context.Context, url string) (*GuestClient, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}

	c := &GuestClient{
		conn:  conn,
		inbox: make(chan protocol.Envelope, inboxBuffer),
	}
	go c.readLoop()
	return c, nil
}

func (c *GuestClient) readLoop() {
	defer close(c.inbox)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			zlog.Debug().Msgf("host connection read: %v", err)
			return
		}

		env, err := protocol.Decode(data)
		if err != nil {
			zlog.Debug().Msgf("drop undecodable message: %v", err)
			continue
		}

		select {
		case c.inbox <- env:
		default:
			zlog.Warn().Msgf("guest inbox full, dropping: type=%s", env.Type)
		}
	}
}

// Send sends an envelope to the host.
func (c *GuestClient) Send(env protocol.Envelope) error {
	data, err := protocol.Encode(env)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return errors.Wrap(c.conn.WriteMessage(websocket.TextMessage, data), "send to host")
}

// Inbox returns the inbound message channel. It is closed when the
// connection drops.
func (c *GuestClient) Inbox() <-chan protocol.Envelope {
	return c.inbox
}

// Close closes the connection to the host.
func (c *GuestClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// ErrConnectionClosed is returned by Send once the connection is shut down.
var ErrConnectionClosed = errors.New("realtime: connection closed")

// Connection wraps a websocket and serializes outbound writes through a
// buffered channel. It carries only transport identity; protocol-level session
// state (bound conversation, counterpart) lives with the owning gateway.
type Connection struct {
	ID        string
	UserID    string
	Namespace string

	ws   *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

// NewConnection constructs a Connection for an authenticated user in the
// given namespace.
func NewConnection(namespace, userID string, ws *websocket.Conn) *Connection {
	return &Connection{
		ID:        uuid.NewString(),
		UserID:    userID,
		Namespace: namespace,
		ws:        ws,
		send:      make(chan []byte, 128),
		done:      make(chan struct{}),
	}
}

// Start launches the write loop; call exactly once, after the connection is
// attached to its hub.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. A full buffer means the client cannot
// keep up, so the connection is dropped rather than letting the backlog grow.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case <-c.done:
		return ErrConnectionClosed
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return ErrConnectionClosed
	}
}

// Close terminates the connection and stops the write loop. Safe to call more
// than once, and safe against concurrent Sends: the send channel is never
// closed, so a Send racing with Close fails on done instead of panicking.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if err := c.write(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}

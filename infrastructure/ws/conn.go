// Package ws is the websocket surface of the relay: connection upgrade,
// per-connection sessions, and frame encoding.
package ws

import (
	"chat-relay/domain"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame formats. Backlog replay and live broadcast share the outbound shape
// so clients need not distinguish them.
type inboundFrame struct {
	Content *string `json:"content"`
}

type outboundFrame struct {
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorFrame struct {
	Error string `json:"error"`
}

func toOutboundFrame(msg domain.ChatMessage) outboundFrame {
	return outboundFrame{
		Username:  msg.Author,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

// wsConn wraps a gorilla connection behind contract.Conn. Live messages are
// queued on a buffered channel drained by a single writer pump; direct writes
// (backlog replay, error acks) share the socket through sendMu because
// gorilla connections allow only one concurrent writer.
type wsConn struct {
	log          *slog.Logger
	sock         *websocket.Conn
	outbound     chan domain.ChatMessage
	closed       chan struct{}
	closeOnce    sync.Once
	sendMu       sync.Mutex
	writeTimeout time.Duration
}

func newConn(log *slog.Logger, sock *websocket.Conn, bufferSize int, writeTimeout time.Duration) *wsConn {
	return &wsConn{
		log:          log,
		sock:         sock,
		outbound:     make(chan domain.ChatMessage, bufferSize),
		closed:       make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

// Push enqueues a live message for delivery. It never blocks the broadcast
// engine: a closed peer or a full buffer (a consumer that stopped reading)
// is a delivery failure.
func (c *wsConn) Push(msg domain.ChatMessage) error {
	select {
	case <-c.closed:
		return fmt.Errorf("connection closed")
	default:
	}

	select {
	case c.outbound <- msg:
		return nil
	default:
		return fmt.Errorf("outbound buffer full")
	}
}

// Close shuts the socket down and stops the writer pump. Idempotent.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.sock.Close()
	})
	return nil
}

// writePump drains the outbound queue onto the socket. It is started only
// after backlog replay, so everything queued during replay is delivered
// after the history.
func (c *wsConn) writePump() {
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.outbound:
			if err := c.writeJSON(toOutboundFrame(msg)); err != nil {
				c.log.Debug("Write failed, closing connection", "error", err)
				_ = c.Close()
				return
			}
		}
	}
}

func (c *wsConn) writeJSON(v any) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	_ = c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.sock.WriteJSON(v)
}

func (c *wsConn) readFrame() ([]byte, error) {
	_, payload, err := c.sock.ReadMessage()
	return payload, err
}

package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 64
	maxMessagesPerSec = 120
)

type outbound struct {
	binary bool
	data   []byte
}

// Client is one WebSocket connection bound to one Session.
type Client struct {
	conn    *websocket.Conn
	session *Session
	logger  *log.Logger
	send    chan outbound
	done    chan struct{}
	once    sync.Once

	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a Client for an upgraded connection.
func NewClient(conn *websocket.Conn, session *Session, logger *log.Logger) *Client {
	return &Client{
		conn:    conn,
		session: session,
		logger:  logger,
		send:    make(chan outbound, sendBufSize),
		done:    make(chan struct{}),
	}
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close ends the connection. Safe to call multiple times.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// ReadPump reads messages from the WebSocket connection until it fails.
func (c *Client) ReadPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", "session", c.session.ID, "error", err)
			}
			return
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.logger.Warn("rate limit exceeded, disconnecting", "session", c.session.ID)
			return
		}

		c.handleMessage(message)
	}
}

// WritePump writes queued messages and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			kind := websocket.TextMessage
			if msg.binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, msg.data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// TickLoop steps the session at the given rate and queues a frame per tick.
func (c *Client) TickLoop(tickRate int) {
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f, err := c.session.Tick()
			if err != nil {
				c.logger.Error("session stopped", "session", c.session.ID, "error", err)
				c.SendJSON(ErrorMsg{T: MsgError, Msg: err.Error()})
				c.closeAfterFlush()
				return
			}
			data, err := EncodeFrame(f)
			if err != nil {
				c.logger.Error("frame dropped", "session", c.session.ID, "error", err)
				continue
			}
			c.enqueue(outbound{binary: true, data: data})
		case <-c.done:
			return
		}
	}
}

// SendJSON queues a JSON text message.
func (c *Client) SendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal failed", "error", err)
		return
	}
	c.enqueue(outbound{data: data})
}

// closeAfterFlush gives the write pump a moment to send queued messages,
// then closes the connection.
func (c *Client) closeAfterFlush() {
	timer := time.NewTimer(writeWait)
	defer timer.Stop()
	for len(c.send) > 0 {
		select {
		case <-c.done:
			return
		case <-timer.C:
			c.Close()
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
	c.Close()
}

// enqueue drops the message when the client is too slow or gone.
func (c *Client) enqueue(msg outbound) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
	}
}

// handleMessage routes one incoming JSON message.
func (c *Client) handleMessage(raw []byte) {
	msg, err := ParseClientMessage(raw)
	if err != nil {
		c.SendJSON(ErrorMsg{T: MsgError, Msg: "bad message"})
		return
	}

	switch msg.T {
	case MsgInput:
		c.session.Apply(msg)
	case MsgLevel:
		if err := c.session.LoadLevel(msg.Level); err != nil {
			c.SendJSON(ErrorMsg{T: MsgError, Msg: err.Error()})
		}
	default:
		c.SendJSON(ErrorMsg{T: MsgError, Msg: "unknown message type " + msg.T})
	}
}

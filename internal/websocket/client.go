package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be shorter than pongWait
	maxMessageSize = 512
	sendBufferSize = 256
)

// Client is one browser connection subscribed to its group's events. Clients are
// created by Hub.Serve.
type Client struct {
	id      string
	groupID int32
	conn    *websocket.Conn
	queue   chan []byte
	onClose func(*Client)

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, groupID int32, onClose func(*Client)) *Client {
	return &Client{
		id:      uuid.New().String(),
		groupID: groupID,
		conn:    conn,
		queue:   make(chan []byte, sendBufferSize),
		onClose: onClose,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) GroupID() int32 {
	return c.groupID
}

// Send queues an event. A client that has fallen sendBufferSize events behind is
// dropped instead of stalling the broadcast.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.queue <- data:
		return nil
	default:
		go c.Close()
		return ErrClientClosed
	}
}

// Close closes the connection and leaves the hub. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.queue)
		c.mu.Unlock()

		err = c.conn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
	return err
}

// readLoop keeps the read deadline moving on pongs. Clients only listen, so
// anything they send is discarded.
func (c *Client) readLoop() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger().Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

// writeLoop is the only writer on the connection
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event, ok := <-c.queue:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				c.logger().Warn().Err(err).Msg("WebSocket write error")
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

func (c *Client) logger() *zerolog.Logger {
	l := log.With().Str("client_id", c.id).Int32("group_id", c.groupID).Logger()
	return &l
}

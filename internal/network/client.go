package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 256
)

// Client is a connected player as seen by the server.
type Client struct {
	id      string
	conn    *websocket.Conn
	hub     *Hub
	limiter *rate.Limiter
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	send   chan Message
}

func newClient(id string, conn *websocket.Conn, hub *Hub, limiter *rate.Limiter, log zerolog.Logger) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		hub:     hub,
		limiter: limiter,
		log:     log.With().Str("client", id).Logger(),
		send:    make(chan Message, sendBuffer),
	}
}

// ID is the stable identity of the connection, also used as the player id.
func (c *Client) ID() string { return c.id }

func (c *Client) RemoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// TrySend queues msg without blocking. It reports false when the client is
// gone or its buffer is full.
func (c *Client) TrySend(msg Message) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		c.log.Warn().Str("type", msg.Type).Msg("send buffer full, message dropped")
		return false
	}
}

// Post hands fn to the hub goroutine, the only place handler state may be
// touched. Use it to finish work that had to wait somewhere else.
func (c *Client) Post(fn func()) bool { return c.hub.post(fn) }

// close stops the write loop. Only the hub calls it.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readLoop() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("unexpected close")
			}
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			c.log.Debug().Str("type", msg.Type).Msg("rate limited, message dropped")
			continue
		}

		select {
		case c.hub.incoming <- clientMessage{client: c, msg: msg}:
		case <-c.hub.done:
			return
		}
	}
}

// writeLoop pumps messages from the send channel to the websocket.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Warn().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package ws

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"reliefline/internal/protocol"
)

const (
	// writeWait is the time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second
	// pingPeriod is the period for sending pings. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxFrameSize is the maximum inbound frame size allowed from a peer.
	maxFrameSize = 4096
	// sendBufferSize is the outbound event buffer per connection. A full
	// buffer drops the event; delivery is best-effort.
	sendBufferSize = 256
)

// Client bridges one WebSocket connection and the message router. Each
// client runs a dedicated read goroutine and write goroutine, the only
// goroutines ever touching the underlying connection.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan protocol.Event
	router *Router
}

func newClient(conn *websocket.Conn, router *Router) *Client {
	return &Client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan protocol.Event, sendBufferSize),
		router: router,
	}
}

// ID returns the process-unique connection identifier.
func (c *Client) ID() string { return c.id }

// Enqueue hands an outbound event to the write pump without blocking.
// It reports false when the buffer is full and the event was dropped.
func (c *Client) Enqueue(evt protocol.Event) bool {
	select {
	case c.send <- evt:
		return true
	default:
		return false
	}
}

// ReadPump pumps frames from the connection into the router. It ensures
// at most one reader per connection. On exit the client is unregistered
// before the connection is torn down, so no further events for this
// identity are delivered to a dead socket.
func (c *Client) ReadPump() {
	defer func() {
		c.router.registry.Unregister(context.Background(), c)
		c.conn.Close()
		log.Printf("CLIENT: Connection %s closed. ReadPump stopped.", c.id)
	}()

	c.conn.SetReadLimit(maxFrameSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("CLIENT: Error setting read deadline for %s: %v", c.id, err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("CLIENT: Connection %s read error: %v", c.id, err)
			}
			break
		}
		c.router.HandleFrame(context.Background(), c, raw)
	}
}

// WritePump pumps events from the send channel onto the connection and
// keeps the peer alive with periodic pings. It ensures at most one
// writer per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		log.Printf("CLIENT: Connection %s WritePump stopped.", c.id)
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("CLIENT: Error setting write deadline for %s: %v", c.id, err)
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				log.Printf("CLIENT: Error writing event '%s' to connection %s: %v", evt.Type, c.id, err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

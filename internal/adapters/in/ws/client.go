package ws

import (
	"sync"
	"time"

	"curbside/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is how long a single frame write may take.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait so a ping is always in
	// flight before the read deadline expires.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames; subscribers only ever listen.
	maxMessageSize = 512

	// sendBufferSize is how many events a subscriber may lag before it is
	// dropped.
	sendBufferSize = 32
)

// Client is one subscribed connection. Writes go through a buffered channel
// drained by writePump, so the hub never blocks on a slow socket.
//
// The send channel is never closed: the hub may still hold a snapshot of
// this client after it unsubscribed, and a send racing a close would panic.
// Shutdown is signaled through done instead.
type Client struct {
	hub   *Hub
	jobID kernel.UUID
	conn  *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(hub *Hub, jobID kernel.UUID, conn *websocket.Conn) *Client {
	return &Client{
		hub:   hub,
		jobID: jobID,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		done:  make(chan struct{}),
	}
}

// enqueue hands a frame to the write pump. Reports false when the buffer is
// full, which marks the client as too slow to keep. A client already shut
// down swallows the frame; it is gone, not slow.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return true
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.hub.unsubscribe(c.jobID, c)
		close(c.done)
	})
}

// readPump discards inbound frames and watches for disconnects. Clients are
// pure listeners; the read loop exists to service pongs and notice the peer
// going away.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the send buffer onto the socket and keeps the connection
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout   = 10 * time.Second
	sendBufferSize = 16
)

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn

	outbound  chan Message
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn) *client {
	return &client{
		id:       uuid.NewString(),
		hub:      hub,
		conn:     conn,
		outbound: make(chan Message, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// send queues a message without blocking; a full buffer means the client is
// too slow and the message is dropped.
func (c *client) send(msg Message) {
	select {
	case c.outbound <- msg:
	case <-c.done:
	default:
		logger.Debug("dropping message for slow client", "client", c.id, "type", msg.Type)
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.outbound:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.disconnect()
				return
			}
		}
	}
}

func (c *client) readPump() {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.disconnect()
			return
		}
		c.hub.handle(c, msg)
	}
}

func (c *client) disconnect() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.stopped:
		c.close()
	}
}

package ws

import (
	"log"

	"github.com/gorilla/websocket"
)

// Client is one connected dashboard viewer. Group is informational; the
// feed is broadcast-only and clients filter on their side.
type Client struct {
	ID    string
	Group string
	Conn  *websocket.Conn
	Send  chan Event

	Manager *WebSocketManager
}

// readPump drains the connection so pings and close frames are processed.
// The feed is one-way; inbound frames are discarded.
func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Println("WebSocket read error:", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	for event := range c.Send {
		if err := c.Conn.WriteJSON(event); err != nil {
			log.Println("WebSocket write error:", err)
			break
		}
	}
}

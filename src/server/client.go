package server

import (
	"encoding/json"
	"time"

	"live-indices/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxCommandSize = 4 * 1024 // select / visibility commands only
	sendBuffer     = 256
)

// -----------------------------------------------------------------------------
// Client is one dashboard page. The hub loop owns send: only the hub closes
// it, and everything queued after registration goes through the hub.
// -----------------------------------------------------------------------------

type Client struct {
	hub  *FastAPIServer
	conn *websocket.Conn
	send chan any // *models.MViewState or a command reply
}

type clientReply struct {
	client  *Client
	message any
}

// -----------------------------------------------------------------------------

func newClient(hub *FastAPIServer, conn *websocket.Conn, initial *models.MViewState) *Client {
	c := &Client{hub: hub, conn: conn, send: make(chan any, sendBuffer)}
	// Full document first, so the page renders before the next tick
	c.send <- initial
	return c
}

// -----------------------------------------------------------------------------
// readCommands decodes page commands until the connection drops.
// A frame that is not a command closes the connection.
// -----------------------------------------------------------------------------

func (c *Client) readCommands() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxCommandSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Info("WebSocket error: %v", err)
			}
			return
		}

		var cmd models.MClientCommand
		if err := json.Unmarshal(frame, &cmd); err != nil {
			c.hub.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
			return
		}
		c.hub.HandleClientCommand(c, cmd)
	}
}

// -----------------------------------------------------------------------------
// writeViews pushes queued views and replies, pinging between them.
// -----------------------------------------------------------------------------

func (c *Client) writeViews() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped the client
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.Logger.Info("Write error: %v", err)
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

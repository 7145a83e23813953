package server

import (
	"net/http"

	"live-indices/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop. It alone writes to or closes a
// registered client's send channel.
func (s *FastAPIServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				s.drop(client)
			}
			return

		case client := <-s.register:
			s.clients[client] = true
			s.clientsChanged()

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				s.drop(client)
				s.clientsChanged()
			}

		case change := <-s.visibility:
			if _, ok := s.clients[change.client]; !ok {
				continue
			}
			s.clients[change.client] = change.visible
			s.reconcileVisibility()

		case reply := <-s.replies:
			if _, ok := s.clients[reply.client]; ok && !s.offer(reply.client, reply.message) {
				s.clientsChanged()
			}

		case message := <-s.broadcast:
			s.stateMutex.Lock()
			s.latestState = message
			s.stateMutex.Unlock()

			evicted := false
			for client := range s.clients {
				if !s.offer(client, message) {
					evicted = true
				}
			}
			if evicted {
				s.clientsChanged()
			}
		}
	}
}

// -----------------------------------------------------------------------------

// offer queues message for client, dropping the client when its buffer is
// full so a slow page cannot stall the hub. Caller is the hub loop.
func (s *FastAPIServer) offer(client *Client, message any) bool {
	select {
	case client.send <- message:
		return true
	default:
		s.Logger.Warning("Client too slow, disconnecting")
		s.drop(client)
		return false
	}
}

func (s *FastAPIServer) drop(client *Client) {
	delete(s.clients, client)
	close(client.send)
}

// clientsChanged refreshes the connection gauges and the poll lifecycle.
func (s *FastAPIServer) clientsChanged() {
	s.connCount.Store(int32(len(s.clients)))
	s.Metrics.SetWSClients(len(s.clients))
	s.reconcileVisibility()
}

// -----------------------------------------------------------------------------

// reconcileVisibility polls while any connected page is visible and stops
// once every connected page is hidden or the last one has left.
func (s *FastAPIServer) reconcileVisibility() {
	anyVisible := false
	for _, visible := range s.clients {
		if visible {
			anyVisible = true
			break
		}
	}

	select {
	case s.lifecycle <- anyVisible:
	default:
		s.Logger.Warning("Lifecycle queue full, dropping visibility=%v", anyVisible)
	}
}

// applyLifecycle runs visibility transitions in arrival order, off the hub loop.
func (s *FastAPIServer) applyLifecycle() {
	for {
		select {
		case <-s.done:
			return
		case visible := <-s.lifecycle:
			s.Dashboard.SetVisible(visible)
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a view for every connected client.
func (s *FastAPIServer) Broadcast(view *models.MViewState) {
	if view == nil {
		return
	}
	select {
	case s.broadcast <- view:
	case <-s.done:
	default:
		// Views are full documents, the next one supersedes this
		s.Logger.Warning("Broadcast queue full, dropping view")
	}
}

// LatestState returns the last broadcast view, or nil.
func (s *FastAPIServer) LatestState() *models.MViewState {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.latestState
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	initial := s.Dashboard.View()
	initial.Type = "INITIAL"
	client := newClient(s, conn, initial)

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writeViews()
	go client.readCommands()
}

// -----------------------------------------------------------------------------

// leave unregisters a client from its read loop.
func (s *FastAPIServer) leave(client *Client) {
	select {
	case s.unregister <- client:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------
// Client Command Handling
// -----------------------------------------------------------------------------

func (s *FastAPIServer) HandleClientCommand(client *Client, cmd models.MClientCommand) {
	switch cmd.Command {
	case "select":
		if err := s.Dashboard.Select(cmd.Entity); err != nil {
			s.reply(client, errorMessage(err))
		}

	case "visibility":
		if cmd.Visible == nil {
			s.reply(client, gin.H{"type": "ERROR", "error": "visibility requires \"visible\""})
			return
		}
		select {
		case s.visibility <- visibilityChange{client: client, visible: *cmd.Visible}:
		case <-s.done:
		}

	default:
		s.Logger.Debug("Ignoring unknown command %q", cmd.Command)
	}
}

// reply hands a direct answer to the hub loop, which owns client.send.
func (s *FastAPIServer) reply(client *Client, message any) {
	select {
	case s.replies <- clientReply{client: client, message: message}:
	case <-s.done:
	}
}

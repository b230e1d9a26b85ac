package server

import (
	"context"
	"net/http"
	"time"

	"stock-digest/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub is the main hub loop: registration, unregistration, fan-out.
func (s *WebServer) runHub() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.clientCount.Store(int32(len(s.clients)))

			// Send the last known snapshot on connect
			s.stateMutex.RLock()
			latest := s.latest
			s.stateMutex.RUnlock()
			if latest != nil {
				initial := *latest
				initial.Type = "INITIAL"
				client.send <- &initial
			}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.clientCount.Store(int32(len(s.clients)))

		case update := <-s.broadcast:
			s.stateMutex.Lock()
			s.latest = update
			s.stateMutex.Unlock()

			for client := range s.clients {
				select {
				case client.send <- update:
				default:
					// Client too slow; prune to keep the hub from blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.clientCount.Store(int32(len(s.clients)))

		case <-s.done:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.clientCount.Store(0)
			return
		}
	}
}

// -----------------------------------------------------------------------------

// Broadcast queues a live update for all connected clients. Non-blocking:
// when the buffer is full the update is dropped, the next one supersedes it.
func (s *WebServer) Broadcast(update *models.MLiveUpdate) {
	select {
	case s.broadcast <- update:
	default:
		s.Logger.Debug("Broadcast buffer full, dropping update")
	}
}

// -----------------------------------------------------------------------------

// liveRefresher periodically fetches fresh quotes while at least one
// websocket client is connected.
func (s *WebServer) liveRefresher() {
	interval := time.Duration(s.Config.LiveIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.clientCount.Load() == 0 {
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), interval)
			quotes, err := s.Quotes.FetchQuotes(ctx, s.Store.List())
			cancel()
			if err != nil {
				s.Logger.Warning("Live refresh failed: %v", err)
				continue
			}
			s.Broadcast(&models.MLiveUpdate{
				Type:      "UPDATE",
				Data:      quotes,
				Timestamp: time.Now().Unix(),
			})

		case <-s.done:
			return
		}
	}
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

func (s *WebServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Warning("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		send: make(chan *models.MLiveUpdate, 16),
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

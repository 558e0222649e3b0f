// Package live pushes match updates to WebSocket subscribers.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Message is the frame sent to subscribers of a match.
type Message struct {
	Type  string         `json:"type"`
	Match *cricket.Match `json:"match"`
}

type update struct {
	matchID uuid.UUID
	payload []byte
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	matchID uuid.UUID
	send    chan []byte
}

type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	broadcast  chan update
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. checkOrigin may be nil to accept same-origin requests only.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan update, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Run dispatches registrations and updates until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for matchID, subs := range h.clients {
				for c := range subs {
					close(c.send)
				}
				delete(h.clients, matchID)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			subs, ok := h.clients[c.matchID]
			if !ok {
				subs = make(map[*Client]bool)
				h.clients[c.matchID] = subs
			}
			subs[c] = true
			h.mu.Unlock()
			slog.Debug("live subscriber registered", "match_id", c.matchID)

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

		case u := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients[u.matchID] {
				select {
				case c.send <- u.payload:
				default:
					slog.Warn("dropping slow live subscriber", "match_id", u.matchID)
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(c *Client) {
	subs, ok := h.clients[c.matchID]
	if !ok || !subs[c] {
		return
	}
	delete(subs, c)
	close(c.send)
	if len(subs) == 0 {
		delete(h.clients, c.matchID)
	}
}

// Publish queues the match for its subscribers. It never blocks the caller;
// when the queue is full the update is dropped.
func (h *Hub) Publish(match *cricket.Match) {
	payload, err := json.Marshal(Message{Type: "match", Match: match})
	if err != nil {
		slog.Error("failed to marshal live update", "match_id", match.ID, "error", err)
		return
	}
	select {
	case h.broadcast <- update{matchID: match.ID, payload: payload}:
	default:
		slog.Warn("live update queue full, dropping update", "match_id", match.ID)
	}
}

func (h *Hub) Subscribers(matchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[matchID])
}

// ServeMatch upgrades the request and streams updates for matchID until the
// peer goes away.
func (h *Hub) ServeMatch(w http.ResponseWriter, r *http.Request, matchID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{hub: h, conn: conn, matchID: matchID, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}

	go c.writePump()
	c.readPump()
	return nil
}

// readPump only watches for the close frame and keeps the pong deadline fresh.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("live websocket closed", "match_id", c.matchID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

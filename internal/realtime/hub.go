package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub pushes ledger mutation events to connected dashboard clients so open
// screens refresh without polling.

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type Event struct {
	Type     string      `json:"type"` // entry_created, entry_deleted, payment_created, payment_deleted
	UserID   int         `json:"user_id"`
	Payload  interface{} `json:"payload,omitempty"`
	SentAt   time.Time   `json:"sent_at"`
}

type client struct {
	userID int
	conn   *websocket.Conn
	send   chan []byte
}

type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	upgrader   websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, 64),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth happens before the upgrade; origin is not a
			// trust boundary for a mobile-first API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run owns the client set. Must be started once, before ServeWS is reachable.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for c := range h.clients {
				// Events are scoped to the owning user's clients.
				if c.userID != event.UserID {
					continue
				}
				select {
				case c.send <- data:
				default:
					// Slow consumer, drop the event rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an event without blocking the caller. Mutations never
// wait on websocket delivery.
func (h *Hub) Broadcast(eventType string, userID int, payload interface{}) {
	event := Event{Type: eventType, UserID: userID, Payload: payload, SentAt: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[Realtime] Broadcast buffer full, dropping %s event", eventType)
	}
}

// ServeWS upgrades the request. The caller has already authenticated it and
// passes the verified user ID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Realtime] Upgrade failed: %v", err)
		return
	}

	c := &client{userID: userID, conn: conn, send: make(chan []byte, 16)}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// Clients are receive-only; any read error means disconnect.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

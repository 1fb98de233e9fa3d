// Package dashboard serves a small local-only status page and
// websocket feed so a browser tab can watch a mining run without
// tailing the terminal. It is entirely optional and carries no
// mutating endpoints.
package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans out broadcast frames to every connected websocket client.
// It uses a buffered broadcast channel plus a mutex-guarded client set.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
}

// NewHub returns a Hub with no clients and its broadcast loop not yet
// running — call Run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 64),
	}
}

// Run drains the broadcast channel, writing each frame to every
// connected client and dropping any client whose write fails.
func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Broadcast enqueues a frame for delivery to all connected clients.
// Non-blocking: a full buffer drops the frame rather than stalling
// the mining coordinator's progress reporting.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
	}
}

// Subscribe upgrades an HTTP request to a websocket connection and
// registers it with the hub. The connection is removed automatically
// once its read loop detects a disconnect.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

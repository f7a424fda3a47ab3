package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/gorilla/websocket"

	"powerball/internal/services"
)

// Hub pushes game snapshots to every connected websocket client at a fixed
// cadence, mirroring what the table display sees.
type Hub struct {
	game     *services.Game
	interval time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub(game *services.Game, interval time.Duration) *Hub {
	return &Hub{
		game:     game,
		interval: interval,
		upgrader: websocket.Upgrader{
			// Party-room clients connect from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Serve upgrades a connection, sends an initial snapshot and registers the
// client for pushes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Infof("websocket upgrade: %v", err)
		return
	}
	if err := conn.WriteJSON(h.game.Snapshot()); err != nil {
		conn.Close()
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Clients never send game data; the read loop only notices the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// Run broadcasts snapshots until the context is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
			}
			h.clients = make(map[*websocket.Conn]bool)
			h.mu.Unlock()
			return nil
		case <-ticker.C:
			h.broadcast()
		}
	}
}

func (h *Hub) broadcast() {
	h.mu.Lock()
	if len(h.clients) == 0 {
		h.mu.Unlock()
		return
	}
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	snapshot := h.game.Snapshot()
	for _, conn := range conns {
		if err := conn.WriteJSON(snapshot); err != nil {
			h.drop(conn)
		}
	}
}

package ws

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks the open signaling connections so they can be counted and torn
// down on shutdown.
type Hub struct {
	mu         sync.Mutex
	clients    map[Client]bool
	register   chan Client
	unregister chan Client
	quit       chan struct{}
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Client]bool),
		register:   make(chan Client),
		unregister: make(chan Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Info().Str("client_id", client.ID()).Msg("Client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				log.Info().Str("client_id", client.ID()).Msg("Client unregistered")
			}
			h.mu.Unlock()
		}
	}
}

// Register and Unregister are no-ops once the hub has stopped.
func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stop closes every client and waits for Run to return.
func (h *Hub) Stop() {
	close(h.quit)
	<-h.done
}

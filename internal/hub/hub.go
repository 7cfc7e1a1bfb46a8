package hub

import (
	"encoding/json"
	"fmt"
	"sync"
)

const (
	EventMessageNew     = "message:new"
	EventMessageDeleted = "message:deleted"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a single chat stream subscriber.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// NewClient returns a client able to hold buffer pending events.
func NewClient(buffer int) Client {
	return make(Client, buffer)
}

// Hub fans chat events out to every subscribed client.
type Hub struct {
	clients map[Client]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[Client]bool),
	}
}

func (h *Hub) Subscribe(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

// Unsubscribe removes a client and closes its channel. Unknown clients are
// ignored.
func (h *Hub) Unsubscribe(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client) // Close the channel to signal the SSE handler to stop.
	}
}

// Broadcast sends an event to all clients. A client whose buffer is full
// misses the event.
func (h *Hub) Broadcast(event Event) error {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		// Use a non-blocking send to prevent a slow client from blocking the hub.
		select {
		case client <- messageBytes:
		default:
		}
	}
	return nil
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unsubscribes every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client)
	}
}

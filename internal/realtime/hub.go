package realtime

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	presence map[int64]int
}

type Client struct {
	UserID int64
	Send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:  map[*Client]struct{}{},
		presence: map[int64]int{},
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	h.presence[client.UserID]++
	h.broadcastPresenceLocked()
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if count, ok := h.presence[client.UserID]; ok {
		if count <= 1 {
			delete(h.presence, client.UserID)
		} else {
			h.presence[client.UserID] = count - 1
		}
	}
	h.broadcastPresenceLocked()
	close(client.Send)
}

func (h *Hub) Broadcast(payload any) {
	message, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

func (h *Hub) broadcastPresenceLocked() {
	users := make([]int64, 0, len(h.presence))
	for userID := range h.presence {
		users = append(users, userID)
	}
	payload := map[string]any{
		"type":  "presence.update",
		"users": users,
	}
	message, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

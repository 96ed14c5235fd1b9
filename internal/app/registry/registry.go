package registry

import (
	"revere/internal/core/contracts"
	"sync"
)

// Registry tracks the live connections of this node, grouped by participant.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]contracts.Client            // connection id → client
	byOwner map[string]map[string]contracts.Client // participant id → connections
}

var _ contracts.Registry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]contracts.Client),
		byOwner: make(map[string]map[string]contracts.Client),
	}
}

func (h *Registry) Register(c contracts.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	owner := c.ParticipantID()
	if h.byOwner[owner] == nil {
		h.byOwner[owner] = make(map[string]contracts.Client)
	}
	h.byOwner[owner][c.ID()] = c
	h.clients[c.ID()] = c
}

func (h *Registry) Unregister(c contracts.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	owner := c.ParticipantID()
	delete(h.byOwner[owner], c.ID())
	if len(h.byOwner[owner]) == 0 {
		delete(h.byOwner, owner)
	}
	delete(h.clients, c.ID())
}

// Connections reports how many sockets participantID has open on this node.
func (h *Registry) Connections(participantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byOwner[participantID])
}

func (h *Registry) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll closes every registered client; their handlers unregister them.
func (h *Registry) CloseAll() {
	h.mu.RLock()
	clients := make([]contracts.Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.Close()
	}
}

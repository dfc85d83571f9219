package session

import (
	"sort"
	"sync"

	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/monitoring"
)

// Hub tracks live sessions.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session // Protected by mu
	metrics  *monitoring.Metrics
}

// NewHub creates an empty hub
func NewHub(metrics *monitoring.Metrics) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		metrics:  metrics,
	}
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID()] = s
	h.mu.Unlock()
	h.metrics.IncSessions()
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.ID()]
	delete(h.sessions, s.ID())
	h.mu.Unlock()
	if ok {
		h.metrics.DecSessions()
	}
}

// Get returns a session by ID
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Len returns the number of live sessions
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// List returns session snapshots, oldest connection first.
func (h *Hub) List() []Info {
	h.mu.RLock()
	out := make([]Info, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s.Info())
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}

// CloseAll disconnects every session
func (h *Hub) CloseAll() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.close()
	}
}

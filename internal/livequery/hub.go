package livequery

import (
	"sync"
)

// Hub fans out table invalidations to live query subscribers. Notifications
// coalesce: a subscriber that has not consumed the previous signal yet does
// not queue a second one.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]chan struct{})}
}

// Notify signals every subscriber watching any of the given tables.
func (h *Hub) Notify(tables ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[uint64]struct{})
	for _, table := range tables {
		for id, ch := range h.subs[table] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// watch registers a subscriber for the tables and returns its signal channel
// together with a function that removes the registration.
func (h *Hub) watch(tables []string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	for _, table := range tables {
		if h.subs[table] == nil {
			h.subs[table] = make(map[uint64]chan struct{})
		}
		h.subs[table][id] = ch
	}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, table := range tables {
			delete(h.subs[table], id)
			if len(h.subs[table]) == 0 {
				delete(h.subs, table)
			}
		}
	}
}

// Subscribers returns the number of active registrations on a table.
func (h *Hub) Subscribers(table string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[table])
}

package main

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// event is one framed SSE message.
type event struct {
	name string
	data []byte
}

// hub broadcasts events to every connected notification stream. Per-client
// channels are buffered; a client that stops reading loses events rather
// than blocking the publisher.
type hub struct {
	mu      sync.Mutex
	clients map[chan event]bool
}

func newHub() *hub {
	return &hub{clients: make(map[chan event]bool)}
}

func (h *hub) subscribe() chan event {
	ch := make(chan event, 16)
	h.mu.Lock()
	h.clients[ch] = true
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan event) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

func (h *hub) broadcast(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Failed to encode event", "event", name, "error", err)
		return
	}
	h.mu.Lock()
	for ch := range h.clients {
		select {
		case ch <- event{name: name, data: data}:
		default:
			// drop if client not reading
		}
	}
	h.mu.Unlock()
}

// Package ws is the realtime core: the online-user registry, the broadcast
// fanout, and the per-connection lifecycle of the push channel.
package ws

import (
	"encoding/json"
	"log/slog"
)

// Hub fans events out to registered connections.
type Hub struct {
	registry *Registry
}

func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

// Broadcast serializes event once and delivers it to every registered
// connection except exclude (0 delivers to all). Each delivery is attempted
// independently; failures are swept after the pass so the snapshot iteration
// never races its own removals. A failed connection is unregistered and
// closed, the event is lost for it.
func (h *Hub) Broadcast(event any, exclude int64) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to serialize event", "error", err)
		return
	}

	var failed []Entry
	for _, entry := range h.registry.Snapshot() {
		if exclude != 0 && entry.UserID == exclude {
			continue
		}
		if err := entry.Client.Send(data); err != nil {
			slog.Warn("Delivery failed, dropping client",
				"userID", entry.UserID, "clientID", entry.Client.ID(), "error", err)
			failed = append(failed, entry)
		}
	}

	for _, entry := range failed {
		h.registry.Unregister(entry.UserID)
		entry.Client.Close()
	}
}

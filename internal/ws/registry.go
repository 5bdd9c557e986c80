package ws

import "sync"

// Entry is one registered connection in a registry snapshot.
type Entry struct {
	UserID int64
	Client *Client
}

// Registry is the authoritative table of online users: user id to live
// connection. All access goes through its methods; the map is never handed
// out.
type Registry struct {
	mu      sync.RWMutex
	clients map[int64]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[int64]*Client),
	}
}

// Register inserts or overwrites the entry for userID. Latest connection
// wins: a prior entry for the same user is replaced without closing its
// transport.
func (r *Registry) Register(userID int64, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[userID] = client
}

// Unregister removes the entry for userID and reports whether one was
// present. Unregistering an absent user is a no-op.
func (r *Registry) Unregister(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.clients[userID]
	if ok {
		delete(r.clients, userID)
	}
	return ok
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Snapshot returns a point-in-time copy of the registry, safe to iterate
// while other lifecycles register and unregister.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.clients))
	for userID, client := range r.clients {
		entries = append(entries, Entry{UserID: userID, Client: client})
	}
	return entries
}

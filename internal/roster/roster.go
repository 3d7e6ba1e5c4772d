// Package roster tracks live connections and the display name each one
// has claimed.
package roster

import "sync"

// Store is the connection registry. Names are self-declared and not
// unique: two connections may claim the same name and are tracked
// separately. FindByName returns an arbitrary first match in that case,
// a known limitation inherited from the name-based wire contract.
type Store struct {
	mu    sync.Mutex
	names map[string]string // connection ID -> display name
}

func NewStore() *Store {
	return &Store{
		names: make(map[string]string),
	}
}

// Register binds a display name to a connection, replacing any name the
// connection had claimed before.
func (s *Store) Register(connID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[connID] = name
}

// Remove drops a connection from the registry. Removing an unknown
// connection is a no-op.
func (s *Store) Remove(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.names, connID)
}

// Name returns the display name a connection registered with.
func (s *Store) Name(connID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[connID]
	return name, ok
}

// FindByName returns the connection ID of the first connection that
// registered the given name.
func (s *Store) FindByName(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.names {
		if n == name {
			return id, true
		}
	}
	return "", false
}

// ListNames returns the display names of all joined connections, one
// entry per connection. Order is not significant.
func (s *Store) ListNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.names))
	for _, n := range s.names {
		names = append(names, n)
	}
	return names
}

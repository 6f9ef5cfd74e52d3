package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hammamikhairi/souschef/internal/domain"
)

// MemoryStore keeps sessions in a map. It serializes sessions through
// JSON on save and load so callers get the same copy semantics the
// SQLite store gives them.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	order    []string
}

var _ domain.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; !exists {
		m.order = append(m.order, s.ID)
	}
	m.sessions[s.ID] = data
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Timers == nil {
		s.Timers = make(map[string]*domain.Timer)
	}
	return &s, nil
}

// List returns session IDs, newest first.
func (m *MemoryStore) List(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, len(m.order))
	for i, id := range m.order {
		ids[len(m.order)-1-i] = id
	}
	return ids, nil
}

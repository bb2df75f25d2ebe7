package cart

import (
	"context"
	"encoding/json"
	"sync"
)

type memoryStore struct {
	mu    sync.Mutex
	carts map[string][]byte
}

// NewMemoryStore creates an in-process Store. Used in tests and as a
// fallback when no Redis address is configured.
func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[string][]byte)}
}

func (s *memoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.carts[sessionID]
	if !ok {
		return New(), nil
	}

	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return New(), nil
	}
	return c, nil
}

func (s *memoryStore) Save(_ context.Context, sessionID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = data
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

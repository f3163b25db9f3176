package conversation

import (
	"context"
	"encoding/json"
	"sync"
)

// Store loads and saves per-thread state. Load returns a fresh state
// for unknown threads, never an error for absence.
type Store interface {
	Load(ctx context.Context, threadID, channel string) (*State, error)
	Save(ctx context.Context, state *State) error
}

// MemoryStore keeps state in process memory. Suitable for development
// and single-instance deployments without Redis.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

// Load returns a copy of the stored state, or a fresh one.
func (s *MemoryStore) Load(ctx context.Context, threadID, channel string) (*State, error) {
	s.mu.RLock()
	raw, ok := s.states[threadID]
	s.mu.RUnlock()

	if !ok {
		return NewState(threadID, channel), nil
	}

	// Round-trip through JSON so callers never share slices with the map.
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return NewState(threadID, channel), nil
	}
	return &state, nil
}

// Save stores a snapshot of the state.
func (s *MemoryStore) Save(ctx context.Context, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.states[state.ThreadID] = raw
	s.mu.Unlock()
	return nil
}

// Compile-time check.
var _ Store = (*MemoryStore)(nil)

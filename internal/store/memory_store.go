package store

import (
	"sort"
	"sync"

	"github.com/preston-bernstein/nba-replay-service/internal/domain/playbyplay"
)

// MemoryStore keeps materialized action logs in memory, keyed by game id.
// Stored logs are shared with readers and must be treated as immutable.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[string]playbyplay.Game
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs: make(map[string]playbyplay.Game),
	}
}

// Get retrieves the action log for a game.
func (s *MemoryStore) Get(gameID string) (playbyplay.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.logs[gameID]
	return g, ok
}

// Set stores the action log for a game, replacing any previous value.
func (s *MemoryStore) Set(gameID string, log playbyplay.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[gameID] = log
}

// Len reports how many logs are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

// GameIDs returns the stored game ids in sorted order.
func (s *MemoryStore) GameIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

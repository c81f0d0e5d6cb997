// Package store provides conversation history store implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/KrishiLabs/sakhi"
)

// MemoryStore keeps conversation history in process memory. Useful for
// tests and single-instance deployments; history is lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	turns map[string][]sakhi.Turn
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		turns: make(map[string][]sakhi.Turn),
		now:   time.Now,
	}
}

// Append persists one turn at the end of the conversation. Insertion order
// is the chronological order; timestamps are assigned here.
func (s *MemoryStore) Append(_ context.Context, conversationID string, role sakhi.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[conversationID] = append(s.turns[conversationID], sakhi.Turn{
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	})
	return nil
}

// LoadRecent returns up to limit most recent turns, oldest first. An
// unknown conversation yields an empty slice, not an error.
func (s *MemoryStore) LoadRecent(_ context.Context, conversationID string, limit int) ([]sakhi.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.turns[conversationID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}

	out := make([]sakhi.Turn, len(all))
	copy(out, all)
	return out, nil
}

// Clear removes every turn of the conversation.
func (s *MemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, conversationID)
	return nil
}

// Verify MemoryStore implements HistoryStore
var _ sakhi.HistoryStore = (*MemoryStore)(nil)

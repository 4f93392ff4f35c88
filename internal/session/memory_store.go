package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	user, token *string
	expiresAt   time.Time
}

// MemoryStore is an in-process Store for tests and single-instance dev runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, sid string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok {
		return Record{}, false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, sid)
		return Record{}, false, nil
	}
	var rec Record
	if e.user != nil {
		rec.User = *e.user
	}
	if e.token != nil {
		rec.Token = *e.token
	}
	return rec, e.user != nil && e.token != nil, nil
}

func (s *MemoryStore) Save(_ context.Context, sid string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{user: &rec.User, token: &rec.Token}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[sid] = e
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
)

type memoryEntry struct {
	quote     domain.LockedQuote
	expiresAt time.Time
}

// MemoryQuoteStore is used when redis is not configured. Quotes live in one
// process only, so it does not fit a multi-instance deployment.
type MemoryQuoteStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryQuoteStore() *MemoryQuoteStore {
	return &MemoryQuoteStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryQuoteStore) Save(_ context.Context, quote *domain.LockedQuote, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	s.entries[quote.ID] = memoryEntry{quote: *quote, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryQuoteStore) Get(_ context.Context, id string) (*domain.LockedQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookupLocked(id)
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	quote := entry.quote
	return &quote, nil
}

func (s *MemoryQuoteStore) Take(_ context.Context, id string) (*domain.LockedQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookupLocked(id)
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	delete(s.entries, id)
	quote := entry.quote
	return &quote, nil
}

func (s *MemoryQuoteStore) lookupLocked(id string) (memoryEntry, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryQuoteStore) evictLocked() {
	now := s.now()
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

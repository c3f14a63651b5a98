package store

import (
	"context"
	"sync"
	"time"
)

type memoryHit struct {
	at time.Time
	n  int
}

// MemoryRateLimitStore keeps a log of hits per key in process memory. A
// key's log only holds hits of the current window once it has been counted
// or pruned.
type MemoryRateLimitStore struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]memoryHit
}

// NewMemoryRateLimitStore creates an empty in-memory [RateLimitStore]
// counting over window.
func NewMemoryRateLimitStore(window time.Duration) *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		window: window,
		hits:   make(map[string][]memoryHit),
	}
}

func (s *MemoryRateLimitStore) Hit(_ context.Context, key string, at time.Time, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hits[key] = append(s.hits[key], memoryHit{at: at, n: n})
	return nil
}

func (s *MemoryRateLimitStore) Count(_ context.Context, key string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expire(key, now.Add(-s.window))

	total := 0
	for _, h := range s.hits[key] {
		total += h.n
	}

	return total, nil
}

func (s *MemoryRateLimitStore) Prune(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.window)
	var removed int64
	for key := range s.hits {
		removed += int64(s.expire(key, cutoff))
	}

	return removed, nil
}

// expire drops the hits of key recorded at or before cutoff. The caller
// holds s.mu.
func (s *MemoryRateLimitStore) expire(key string, cutoff time.Time) int {
	log := s.hits[key]
	kept := log[:0]
	for _, h := range log {
		if h.at.After(cutoff) {
			kept = append(kept, h)
		}
	}

	if len(kept) == 0 {
		delete(s.hits, key)
	} else {
		s.hits[key] = kept
	}

	return len(log) - len(kept)
}

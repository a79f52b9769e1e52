package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage for tests and ephemeral sessions.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists one record.
func (s *MemoryStorage) Store(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records = append(s.records, &cp)
	return nil
}

// Query returns records matching the query, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := query.Limit
	if limit <= 0 {
		limit = 1000
	}

	var out []*Record
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.records[i]
		if query.Since != nil && r.Timestamp.Before(*query.Since) {
			continue
		}
		if query.Until != nil && !r.Timestamp.Before(*query.Until) {
			continue
		}
		if query.Decision != "" && r.Decision != query.Decision {
			continue
		}
		if query.Class != "" && r.Class != query.Class {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// Prune deletes records older than the given time.
func (s *MemoryStorage) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var pruned int64
	for _, r := range s.records {
		if r.Timestamp.Before(before) {
			pruned++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return pruned, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

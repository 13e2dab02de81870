package trendstore

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/taapman/internal/domain/dashboard"
)

// MemoryStore counts place lookups in process memory for tests/dev.
type MemoryStore struct {
	mu       sync.RWMutex
	counts   map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
	}
}

// Increment bumps the counter for canonical and remembers the first display label.
func (s *MemoryStore) Increment(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if _, ok := s.displays[canonical]; !ok && display != "" {
		s.displays[canonical] = display
	}
	return nil
}

// Top returns places ordered by count, ties broken alphabetically.
func (s *MemoryStore) Top(_ context.Context, limit int) ([]dashboard.TrendingPlace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]dashboard.TrendingPlace, 0, len(s.counts))
	for canonical, count := range s.counts {
		label := s.displays[canonical]
		if label == "" {
			label = canonical
		}
		items = append(items, dashboard.TrendingPlace{Place: label, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Place < items[j].Place
		}
		return items[i].Count > items[j].Count
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ dashboard.TrendingStore = (*MemoryStore)(nil)

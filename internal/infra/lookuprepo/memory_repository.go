package lookuprepo

import (
	"context"
	"sync"

	"github.com/yanqian/taapman/internal/domain/dashboard"
)

const defaultCapacity = 500

// MemoryRepository keeps the most recent lookups in process memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	entries  []dashboard.Lookup
	capacity int
}

// NewMemoryRepository constructs a bounded log; capacity <= 0 uses a default.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

// Record appends entry, evicting the oldest once full.
func (r *MemoryRepository) Record(_ context.Context, entry dashboard.Lookup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if overflow := len(r.entries) - r.capacity; overflow > 0 {
		r.entries = append([]dashboard.Lookup(nil), r.entries[overflow:]...)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]dashboard.Lookup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]dashboard.Lookup, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

var _ dashboard.LookupLog = (*MemoryRepository)(nil)

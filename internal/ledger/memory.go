package ledger

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and by the CLI's
// standalone mode. Insert order doubles as recency order, matching the
// RecordedAt timestamps the upserter assigns.
type MemoryStore struct {
	mu     sync.RWMutex
	points []PricePoint
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Insert(_ context.Context, pp PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, pp)
	return nil
}

func (m *MemoryStore) LatestByProduct(_ context.Context, storeKey, normalizedName string) (*PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.points) - 1; i >= 0; i-- {
		p := m.points[i]
		if p.StoreNameNormalized == storeKey && p.ProductNameNormalized == normalizedName {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) RecentDistinctProducts(_ context.Context, storeKey string, limit int) ([]PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []PricePoint
	for i := len(m.points) - 1; i >= 0 && len(out) < limit; i-- {
		p := m.points[i]
		if p.StoreNameNormalized != storeKey || seen[p.ProductNameNormalized] {
			continue
		}
		seen[p.ProductNameNormalized] = true
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryStore) RecentWindow(_ context.Context, limit int) ([]PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []PricePoint
	for i := len(m.points) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.points[i])
	}
	return out, nil
}

func (m *MemoryStore) History(_ context.Context, storeKey, normalizedName string, limit int) ([]PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []PricePoint
	for i := len(m.points) - 1; i >= 0 && len(out) < limit; i-- {
		p := m.points[i]
		if p.StoreNameNormalized == storeKey && p.ProductNameNormalized == normalizedName {
			out = append(out, p)
		}
	}
	return out, nil
}

// Len reports the number of stored price points.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

package repository

import (
	"sync"

	"nfttrader-backend/internal/domain"
)

// InMemoryValuationStore caches valuations and collection analytics. Entries
// persist until Clear; the engine recomputes on miss.
type InMemoryValuationStore struct {
	valuations map[string]*domain.Valuation
	analytics  map[string]*domain.CollectionAnalytics
	mu         sync.RWMutex
}

func NewInMemoryValuationStore() *InMemoryValuationStore {
	return &InMemoryValuationStore{
		valuations: make(map[string]*domain.Valuation),
		analytics:  make(map[string]*domain.CollectionAnalytics),
	}
}

func (s *InMemoryValuationStore) GetValuation(key string) (*domain.Valuation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.valuations[key]
	return v, ok
}

func (s *InMemoryValuationStore) SetValuation(key string, v *domain.Valuation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valuations[key] = v
}

func (s *InMemoryValuationStore) GetAnalytics(collection string) (*domain.CollectionAnalytics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.analytics[collection]
	return a, ok
}

func (s *InMemoryValuationStore) SetAnalytics(collection string, a *domain.CollectionAnalytics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analytics[collection] = a
}

func (s *InMemoryValuationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valuations = make(map[string]*domain.Valuation)
	s.analytics = make(map[string]*domain.CollectionAnalytics)
}

var _ domain.ValuationStore = (*InMemoryValuationStore)(nil)

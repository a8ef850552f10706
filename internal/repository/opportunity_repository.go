package repository

import (
	"sync"

	"nfttrader-backend/internal/domain"
)

// InMemoryOpportunityRepository holds the latest scan result per owner.
// Replace swaps the whole set, so a scan never leaves stale entries behind.
type InMemoryOpportunityRepository struct {
	opps map[string][]domain.TradingOpportunity
	mu   sync.RWMutex
}

func NewInMemoryOpportunityRepository() *InMemoryOpportunityRepository {
	return &InMemoryOpportunityRepository{
		opps: make(map[string][]domain.TradingOpportunity),
	}
}

func (r *InMemoryOpportunityRepository) Replace(owner string, opps []domain.TradingOpportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opps[owner] = opps
}

func (r *InMemoryOpportunityRepository) GetByOwner(owner string) []domain.TradingOpportunity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.TradingOpportunity, len(r.opps[owner]))
	copy(result, r.opps[owner])
	return result
}

func (r *InMemoryOpportunityRepository) ClearOwner(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.opps, owner)
}

var _ domain.OpportunityRepository = (*InMemoryOpportunityRepository)(nil)

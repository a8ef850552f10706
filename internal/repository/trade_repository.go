package repository

import (
	"fmt"
	"sync"

	"nfttrader-backend/internal/domain"
)

// InMemoryTradeRepository keeps each owner's automated trade log in append
// order. Records are immutable except for status and terminal fields, which
// arrive via Update.
type InMemoryTradeRepository struct {
	trades map[string][]*domain.AutomatedTrade // owner -> append-ordered log
	mu     sync.RWMutex
}

func NewInMemoryTradeRepository() *InMemoryTradeRepository {
	return &InMemoryTradeRepository{
		trades: make(map[string][]*domain.AutomatedTrade),
	}
}

func (r *InMemoryTradeRepository) Append(trade *domain.AutomatedTrade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *trade
	r.trades[trade.Owner] = append(r.trades[trade.Owner], &cp)
	return nil
}

func (r *InMemoryTradeRepository) Update(trade *domain.AutomatedTrade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.trades[trade.Owner] {
		if existing.ID == trade.ID {
			cp := *trade
			r.trades[trade.Owner][i] = &cp
			return nil
		}
	}
	return fmt.Errorf("trade %s not found for owner %s", trade.ID, trade.Owner)
}

func (r *InMemoryTradeRepository) ListByOwner(owner string) []*domain.AutomatedTrade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.trades[owner]
	result := make([]*domain.AutomatedTrade, len(list))
	for i, t := range list {
		cp := *t
		result[i] = &cp
	}
	return result
}

func (r *InMemoryTradeRepository) ActiveByOwner(owner string) []*domain.AutomatedTrade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]*domain.AutomatedTrade, 0)
	for _, t := range r.trades[owner] {
		if !t.IsTerminal() {
			cp := *t
			active = append(active, &cp)
		}
	}
	return active
}

func (r *InMemoryTradeRepository) ClearOwner(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trades, owner)
}

var _ domain.TradeRepository = (*InMemoryTradeRepository)(nil)

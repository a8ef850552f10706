package repository

import (
	"fmt"
	"sync"

	"nfttrader-backend/internal/domain"
)

// InMemoryRuleRepository stores rules per owner in creation order.
type InMemoryRuleRepository struct {
	rules map[string][]*domain.TradingRule // owner -> ordered rules
	mu    sync.RWMutex
}

func NewInMemoryRuleRepository() *InMemoryRuleRepository {
	return &InMemoryRuleRepository{
		rules: make(map[string][]*domain.TradingRule),
	}
}

func (r *InMemoryRuleRepository) Create(rule *domain.TradingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rule
	r.rules[rule.Owner] = append(r.rules[rule.Owner], &cp)
	return nil
}

func (r *InMemoryRuleRepository) Update(rule *domain.TradingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.rules[rule.Owner] {
		if existing.ID == rule.ID {
			cp := *rule
			r.rules[rule.Owner][i] = &cp
			return nil
		}
	}
	return fmt.Errorf("rule %s not found for owner %s", rule.ID, rule.Owner)
}

func (r *InMemoryRuleRepository) Delete(owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.rules[owner]
	for i, rule := range list {
		if rule.ID == id {
			r.rules[owner] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rule %s not found for owner %s", id, owner)
}

func (r *InMemoryRuleRepository) GetByID(owner, id string) (*domain.TradingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules[owner] {
		if rule.ID == id {
			cp := *rule
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("rule %s not found for owner %s", id, owner)
}

func (r *InMemoryRuleRepository) ListByOwner(owner string) []*domain.TradingRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.rules[owner]
	result := make([]*domain.TradingRule, len(list))
	for i, rule := range list {
		cp := *rule
		result[i] = &cp
	}
	return result
}

func (r *InMemoryRuleRepository) ClearOwner(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, owner)
}

var _ domain.RuleRepository = (*InMemoryRuleRepository)(nil)

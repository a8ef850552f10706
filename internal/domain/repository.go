package domain

// ValuationStore caches derived valuations and collection analytics. Entries
// live until an explicit clear; there is no TTL.
type ValuationStore interface {
	GetValuation(key string) (*Valuation, bool)
	SetValuation(key string, v *Valuation)
	GetAnalytics(collection string) (*CollectionAnalytics, bool)
	SetAnalytics(collection string, a *CollectionAnalytics)
	Clear()
}

// RuleRepository stores owner-scoped trading rules. ListByOwner returns rules
// in creation order; the engine evaluates them in that order.
type RuleRepository interface {
	Create(rule *TradingRule) error
	Update(rule *TradingRule) error
	Delete(owner, id string) error
	GetByID(owner, id string) (*TradingRule, error)
	ListByOwner(owner string) []*TradingRule
	ClearOwner(owner string)
}

// TradeRepository stores the per-owner automated trade log.
type TradeRepository interface {
	Append(trade *AutomatedTrade) error
	Update(trade *AutomatedTrade) error
	ListByOwner(owner string) []*AutomatedTrade
	ActiveByOwner(owner string) []*AutomatedTrade
	ClearOwner(owner string)
}

// OpportunityRepository caches scan results; Replace swaps the owner's whole set.
type OpportunityRepository interface {
	Replace(owner string, opps []TradingOpportunity)
	GetByOwner(owner string) []TradingOpportunity
	ClearOwner(owner string)
}

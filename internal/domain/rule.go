package domain

import "time"

// ConditionType selects which live value a condition reads.
type ConditionType string

const (
	ConditionPrice           ConditionType = "price"
	ConditionFloorPrice      ConditionType = "floor_price"
	ConditionVolume          ConditionType = "volume"
	ConditionRarity          ConditionType = "rarity"
	ConditionTime            ConditionType = "time"
	ConditionPortfolio       ConditionType = "portfolio"
	ConditionMarketSentiment ConditionType = "market_sentiment"
)

// Operator compares the live value against the condition value.
type Operator string

const (
	OpGT       Operator = "gt"
	OpLT       Operator = "lt"
	OpEQ       Operator = "eq"
	OpGTE      Operator = "gte"
	OpLTE      Operator = "lte"
	OpBetween  Operator = "between"
	OpContains Operator = "contains"
)

// TradingCondition is one typed boolean clause of a rule. A rule's conditions
// are AND-combined. Value is a number for the ordering operators, a 2-element
// range for "between" and a list for "contains".
type TradingCondition struct {
	Type     ConditionType `json:"type"`
	Operator Operator      `json:"operator"`
	Value    any           `json:"value"`
	Contract string        `json:"contract,omitempty"`
	TokenID  string        `json:"tokenId,omitempty"`
}

// ActionType names what the executor should do once a rule fires.
type ActionType string

const (
	ActionBuy         ActionType = "buy"
	ActionSell        ActionType = "sell"
	ActionList        ActionType = "list"
	ActionUnlist      ActionType = "unlist"
	ActionOffer       ActionType = "offer"
	ActionCancelOffer ActionType = "cancel_offer"
	ActionAlert       ActionType = "alert"
	ActionRebalance   ActionType = "rebalance"
)

// TradingAction is one step of a rule's action list, executed in declared order.
type TradingAction struct {
	Type        ActionType     `json:"type"`
	Contract    string         `json:"contract,omitempty"`
	TokenID     string         `json:"tokenId,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Marketplace string         `json:"marketplace,omitempty"`
	SlippageBps int            `json:"slippageBps,omitempty"`
	Priority    string         `json:"priority,omitempty"`
}

// TradingRule is an owner-scoped automation rule. ExecutionCount and
// LastExecuted are mutated only by the rule engine when a cycle fires.
type TradingRule struct {
	ID                  string             `json:"id"`
	Owner               string             `json:"owner"`
	Type                string             `json:"type"` // e.g. "stop_loss", "floor_sweep"
	Name                string             `json:"name,omitempty"`
	Conditions          []TradingCondition `json:"conditions"`
	Actions             []TradingAction    `json:"actions"`
	Enabled             bool               `json:"enabled"`
	Priority            int                `json:"priority"`
	CooldownMinutes     int                `json:"cooldownMinutes"`
	MaxExecutionsPerDay int                `json:"maxExecutionsPerDay"`
	LastExecuted        *time.Time         `json:"lastExecuted,omitempty"`
	ExecutionCount      int                `json:"executionCount"`
	SuccessRate         float64            `json:"successRate"`
	TotalProfit         float64            `json:"totalProfit"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// RuleUpdate is a shallow field merge applied by the rule engine. Nil fields
// are left untouched.
type RuleUpdate struct {
	Type                *string             `json:"type,omitempty"`
	Name                *string             `json:"name,omitempty"`
	Conditions          *[]TradingCondition `json:"conditions,omitempty"`
	Actions             *[]TradingAction    `json:"actions,omitempty"`
	Enabled             *bool               `json:"enabled,omitempty"`
	Priority            *int                `json:"priority,omitempty"`
	CooldownMinutes     *int                `json:"cooldownMinutes,omitempty"`
	MaxExecutionsPerDay *int                `json:"maxExecutionsPerDay,omitempty"`
}

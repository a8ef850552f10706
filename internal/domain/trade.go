package domain

import "time"

// TradeStatus is the lifecycle state of an automated trade record.
type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeExecuting TradeStatus = "executing"
	TradeCompleted TradeStatus = "completed"
	TradeFailed    TradeStatus = "failed"
	TradeCancelled TradeStatus = "cancelled"
)

// AutomatedTrade is appended to the owner's log when an action is dispatched.
// After creation only the status and terminal fields (ExecutedAt, TxRef,
// Profit, Error) change.
type AutomatedTrade struct {
	ID          string      `json:"id"`
	Owner       string      `json:"owner"`
	RuleID      string      `json:"ruleId"`
	ActionType  ActionType  `json:"actionType"`
	Contract    string      `json:"contract"`
	TokenID     string      `json:"tokenId"`
	Price       float64     `json:"price"`
	Marketplace string      `json:"marketplace,omitempty"`
	Status      TradeStatus `json:"status"`
	TxRef       string      `json:"txRef,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	ExecutedAt  *time.Time  `json:"executedAt,omitempty"`
	Profit      *float64    `json:"profit,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// IsTerminal reports whether the trade reached a final state.
func (t *AutomatedTrade) IsTerminal() bool {
	return t.Status == TradeCompleted || t.Status == TradeFailed || t.Status == TradeCancelled
}

// TradingPerformance aggregates an owner's completed trades.
type TradingPerformance struct {
	Owner           string          `json:"owner"`
	TotalTrades     int             `json:"totalTrades"`
	CompletedTrades int             `json:"completedTrades"`
	FailedTrades    int             `json:"failedTrades"`
	WinRate         float64         `json:"winRate"` // percent of completed trades with positive profit
	TotalProfit     float64         `json:"totalProfit"`
	AverageProfit   float64         `json:"averageProfit"`
	BestTrade       *AutomatedTrade `json:"bestTrade,omitempty"`
	WorstTrade      *AutomatedTrade `json:"worstTrade,omitempty"`
}

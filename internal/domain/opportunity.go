package domain

import "time"

// StrategyType names the scanner strategy that produced an opportunity.
type StrategyType string

const (
	StrategyArbitrage     StrategyType = "arbitrage"
	StrategyFlip          StrategyType = "flip"
	StrategyMomentum      StrategyType = "momentum"
	StrategyMeanReversion StrategyType = "mean_reversion"
)

// RiskLevel is the scanner's coarse risk bucket for an opportunity.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TradingOpportunity is an ephemeral scan result. The owner's set is fully
// replaced on every scan; opportunities never write back into the valuation
// cache. Reasoning records the triggering values for audit and alerting.
type TradingOpportunity struct {
	ID             string             `json:"id"`
	Owner          string             `json:"owner"`
	Strategy       StrategyType       `json:"strategy"`
	Contract       string             `json:"contract"`
	TokenID        string             `json:"tokenId,omitempty"`
	ExpectedReturn float64            `json:"expectedReturn"`
	Confidence     float64            `json:"confidence"` // [0,100]
	Risk           RiskLevel          `json:"risk"`
	TimeHorizon    string             `json:"timeHorizon"`
	Reasoning      []string           `json:"reasoning"`
	SuggestedAction *TradingAction    `json:"suggestedAction,omitempty"`
	MarketData     map[string]float64 `json:"marketData,omitempty"`
	DiscoveredAt   time.Time          `json:"discoveredAt"`
}

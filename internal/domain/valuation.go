package domain

import "time"

// Sentiment is the short-horizon price direction read from recent sales.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// Valuation is the cached per-asset output of the valuation engine.
// Confidence is [0,1]; LiquidityScore and RarityScore are [0,100].
type Valuation struct {
	Contract       string    `json:"contract"`
	TokenID        string    `json:"tokenId"`
	EstimatedValue float64   `json:"estimatedValue"`
	Confidence     float64   `json:"confidence"`
	Volatility     float64   `json:"volatility"`
	LiquidityScore float64   `json:"liquidityScore"`
	RarityScore    float64   `json:"rarityScore"`
	Sentiment      Sentiment `json:"sentiment"`
	ComputedAt     time.Time `json:"computedAt"`
}

// CollectionAnalytics is the cached per-collection output of the valuation engine.
// WashTradingScore and BlueChipScore are [0,100].
type CollectionAnalytics struct {
	Collection       string    `json:"collection"`
	FloorPrice       float64   `json:"floorPrice"`
	Volume24h        float64   `json:"volume24h"`
	Volume7d         float64   `json:"volume7d"`
	Volume30d        float64   `json:"volume30d"`
	FloorChange24h   float64   `json:"floorChange24h"`
	FloorChange7d    float64   `json:"floorChange7d"`
	FloorChange30d   float64   `json:"floorChange30d"`
	WashTradingScore float64   `json:"washTradingScore"`
	BlueChipScore    float64   `json:"blueChipScore"`
	ComputedAt       time.Time `json:"computedAt"`
}

// ValuationKey builds the cache key for one asset.
func ValuationKey(contract, tokenID string) string {
	return contract + "-" + tokenID
}

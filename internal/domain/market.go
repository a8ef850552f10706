package domain

import "time"

// Listing is a live ask for one token on one marketplace.
type Listing struct {
	Contract    string    `json:"contract"`
	TokenID     string    `json:"tokenId"`
	Price       float64   `json:"price"`
	Marketplace string    `json:"marketplace"`
	Seller      string    `json:"seller,omitempty"`
	ListedAt    time.Time `json:"listedAt"`
}

// Sale is a settled trade for one token.
type Sale struct {
	Contract    string    `json:"contract"`
	TokenID     string    `json:"tokenId"`
	Price       float64   `json:"price"`
	Marketplace string    `json:"marketplace,omitempty"`
	Buyer       string    `json:"buyer,omitempty"`
	Seller      string    `json:"seller,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Offer is a live bid on a token.
type Offer struct {
	Contract  string    `json:"contract"`
	TokenID   string    `json:"tokenId"`
	Price     float64   `json:"price"`
	Bidder    string    `json:"bidder,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MarketSnapshot bundles everything the valuation engine reads for one asset.
// PriceHistory is ordered most-recent-first.
type MarketSnapshot struct {
	Contract      string    `json:"contract"`
	TokenID       string    `json:"tokenId"`
	FloorPrice    float64   `json:"floorPrice"`
	LastSalePrice *float64  `json:"lastSalePrice,omitempty"`
	LastSaleAt    *time.Time `json:"lastSaleAt,omitempty"`
	PriceHistory  []Sale    `json:"priceHistory"`
	Listings      []Listing `json:"listings"`
	Offers        []Offer   `json:"offers"`
}

// CollectionStats is provider-supplied aggregate data for a collection.
type CollectionStats struct {
	Collection     string  `json:"collection"`
	FloorPrice     float64 `json:"floorPrice"`
	Volume24h      float64 `json:"volume24h"`
	Volume7d       float64 `json:"volume7d"`
	Volume30d      float64 `json:"volume30d"`
	FloorChange24h float64 `json:"floorChange24h"`
	FloorChange7d  float64 `json:"floorChange7d"`
	FloorChange30d float64 `json:"floorChange30d"`
	MarketCap      float64 `json:"marketCap"`
	TotalSupply    int     `json:"totalSupply"`
	HolderCount    int     `json:"holderCount"`
	ListedCount    int     `json:"listedCount"`
	Verified       bool    `json:"verified"`
	HasWebsite     bool    `json:"hasWebsite"`
	HasTwitter     bool    `json:"hasTwitter"`
	HasDiscord     bool    `json:"hasDiscord"`
}

// AssetMetadata carries the static signals for one token.
// Rarity is normalized to [0,1]; nil when the marketplace has no ranking.
type AssetMetadata struct {
	Contract string            `json:"contract"`
	TokenID  string            `json:"tokenId"`
	Name     string            `json:"name,omitempty"`
	Rarity   *float64          `json:"rarity,omitempty"`
	Traits   map[string]string `json:"traits,omitempty"`
}

// CollectionTrend is one row of a gainers/losers ranking.
type CollectionTrend struct {
	Collection    string  `json:"collection"`
	Name          string  `json:"name,omitempty"`
	FloorPrice    float64 `json:"floorPrice"`
	ChangePercent float64 `json:"changePercent"` // 24h floor move, signed
	Volume24h     float64 `json:"volume24h"`
}

// Position is one asset held in an owner's portfolio.
type Position struct {
	Owner            string    `json:"owner"`
	Contract         string    `json:"contract"`
	TokenID          string    `json:"tokenId"`
	AcquisitionPrice float64   `json:"acquisitionPrice"`
	AcquiredAt       time.Time `json:"acquiredAt"`
}

// PortfolioSummary is the owner-level aggregate used by portfolio conditions.
type PortfolioSummary struct {
	Owner         string  `json:"owner"`
	TotalValue    float64 `json:"totalValue"`
	PositionCount int     `json:"positionCount"`
}

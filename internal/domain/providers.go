package domain

import "context"

// MarketDataProvider supplies raw marketplace data. Fetching is out of scope
// for the engine itself; any implementation (live API client, fixture, cache)
// can be plugged in.
type MarketDataProvider interface {
	// GetFloorPrice returns the lowest live ask for any item in the collection.
	GetFloorPrice(ctx context.Context, collection string) (float64, error)

	// GetAssetListings returns live listings for one token. An empty tokenID
	// requests collection-wide listings (used by the arbitrage scan to compare
	// asks for the same token across marketplaces).
	GetAssetListings(ctx context.Context, contract, tokenID string) ([]Listing, error)

	// GetAssetTrades returns the sale history for one token, most recent first.
	GetAssetTrades(ctx context.Context, contract, tokenID string) ([]Sale, error)

	// GetCollectionStats returns aggregate collection data.
	GetCollectionStats(ctx context.Context, collection string) (*CollectionStats, error)

	// GetAssetMetadata returns static token signals (rarity, traits).
	GetAssetMetadata(ctx context.Context, contract, tokenID string) (*AssetMetadata, error)
}

// PortfolioProvider supplies an owner's holdings.
type PortfolioProvider interface {
	GetPositions(ctx context.Context, owner string) ([]Position, error)
	GetPortfolioSummary(ctx context.Context, owner string) (*PortfolioSummary, error)
}

// MarketTrendsProvider supplies market-wide gainer/loser rankings.
type MarketTrendsProvider interface {
	GetTopGainers(ctx context.Context, limit int) ([]CollectionTrend, error)
	GetTopLosers(ctx context.Context, limit int) ([]CollectionTrend, error)
}

// ExecutionRequest is what the engine hands to the marketplace executor.
type ExecutionRequest struct {
	Owner       string
	Contract    string
	TokenID     string
	Price       float64
	Marketplace string
	SlippageBps int
}

// MarketplaceExecutor submits orders on-chain. Order construction and signing
// live entirely behind this boundary.
type MarketplaceExecutor interface {
	SubmitBuy(ctx context.Context, req ExecutionRequest) (txRef string, err error)
	SubmitSell(ctx context.Context, req ExecutionRequest) (txRef string, err error)
	SubmitListing(ctx context.Context, req ExecutionRequest) (txRef string, err error)
}

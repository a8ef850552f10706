package usecase

import (
	"context"
	"errors"
	"sync"

	"nfttrader-backend/internal/domain"
)

var errProviderDown = errors.New("provider down")

// fakeMarket implements domain.MarketDataProvider with per-call overrides.
// Unset funcs report the provider as having no data.
type fakeMarket struct {
	floor    func(ctx context.Context, collection string) (float64, error)
	listings func(ctx context.Context, contract, tokenID string) ([]domain.Listing, error)
	trades   func(ctx context.Context, contract, tokenID string) ([]domain.Sale, error)
	stats    func(ctx context.Context, collection string) (*domain.CollectionStats, error)
	metadata func(ctx context.Context, contract, tokenID string) (*domain.AssetMetadata, error)
}

func (f *fakeMarket) GetFloorPrice(ctx context.Context, collection string) (float64, error) {
	if f.floor == nil {
		return 0, errProviderDown
	}
	return f.floor(ctx, collection)
}

func (f *fakeMarket) GetAssetListings(ctx context.Context, contract, tokenID string) ([]domain.Listing, error) {
	if f.listings == nil {
		return nil, nil
	}
	return f.listings(ctx, contract, tokenID)
}

func (f *fakeMarket) GetAssetTrades(ctx context.Context, contract, tokenID string) ([]domain.Sale, error) {
	if f.trades == nil {
		return nil, nil
	}
	return f.trades(ctx, contract, tokenID)
}

func (f *fakeMarket) GetCollectionStats(ctx context.Context, collection string) (*domain.CollectionStats, error) {
	if f.stats == nil {
		return nil, errProviderDown
	}
	return f.stats(ctx, collection)
}

func (f *fakeMarket) GetAssetMetadata(ctx context.Context, contract, tokenID string) (*domain.AssetMetadata, error) {
	if f.metadata == nil {
		return nil, errProviderDown
	}
	return f.metadata(ctx, contract, tokenID)
}

type fakePortfolio struct {
	positions func(ctx context.Context, owner string) ([]domain.Position, error)
	summary   func(ctx context.Context, owner string) (*domain.PortfolioSummary, error)
}

func (f *fakePortfolio) GetPositions(ctx context.Context, owner string) ([]domain.Position, error) {
	if f.positions == nil {
		return nil, nil
	}
	return f.positions(ctx, owner)
}

func (f *fakePortfolio) GetPortfolioSummary(ctx context.Context, owner string) (*domain.PortfolioSummary, error) {
	if f.summary == nil {
		return nil, errProviderDown
	}
	return f.summary(ctx, owner)
}

type fakeTrends struct {
	gainers func(ctx context.Context, limit int) ([]domain.CollectionTrend, error)
	losers  func(ctx context.Context, limit int) ([]domain.CollectionTrend, error)
}

func (f *fakeTrends) GetTopGainers(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
	if f.gainers == nil {
		return nil, nil
	}
	return f.gainers(ctx, limit)
}

func (f *fakeTrends) GetTopLosers(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
	if f.losers == nil {
		return nil, nil
	}
	return f.losers(ctx, limit)
}

// fakeMarketplace records every submission and can be told to fail.
type fakeMarketplace struct {
	mu     sync.Mutex
	calls  []string
	refuse error
}

func (f *fakeMarketplace) record(kind string, req domain.ExecutionRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, kind+":"+req.Contract+":"+req.TokenID)
	f.mu.Unlock()
	if f.refuse != nil {
		return "", f.refuse
	}
	return "tx-" + kind, nil
}

func (f *fakeMarketplace) SubmitBuy(ctx context.Context, req domain.ExecutionRequest) (string, error) {
	return f.record("buy", req)
}

func (f *fakeMarketplace) SubmitSell(ctx context.Context, req domain.ExecutionRequest) (string, error) {
	return f.record("sell", req)
}

func (f *fakeMarketplace) SubmitListing(ctx context.Context, req domain.ExecutionRequest) (string, error) {
	return f.record("list", req)
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) Publish(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) ofType(t domain.EventType) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, 0)
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

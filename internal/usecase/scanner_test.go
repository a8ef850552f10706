package usecase

import (
	"context"
	"testing"
	"time"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scannerFixture struct {
	scanner  *OpportunityScanner
	opps     *repository.InMemoryOpportunityRepository
	recorder *eventRecorder
}

func newScannerFixture(market *fakeMarket, portfolio *fakePortfolio, trends *fakeTrends) *scannerFixture {
	now := func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	valuation := NewValuationService(market, repository.NewInMemoryValuationStore())
	valuation.now = now

	opps := repository.NewInMemoryOpportunityRepository()
	recorder := &eventRecorder{}
	scanner := NewOpportunityScanner(valuation, market, portfolio, trends, opps, recorder)
	scanner.now = now
	scanner.SetTrendingCollections([]string{"testcollection"})

	return &scannerFixture{scanner: scanner, opps: opps, recorder: recorder}
}

func TestScanArbitrage(t *testing.T) {
	tests := []struct {
		name       string
		prices     []float64
		wantCount  int
		wantReturn float64
		wantRisk   domain.RiskLevel
	}{
		{"6% spread fires low risk", []float64{100, 106}, 1, 5.4, domain.RiskLow},
		{"4% spread is noise", []float64{100, 104}, 0, 0, ""},
		{"15% spread is medium risk", []float64{100, 115}, 1, 13.5, domain.RiskMedium},
		{"25% spread is high risk", []float64{100, 125}, 1, 22.5, domain.RiskHigh},
		{"single listing", []float64{100}, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := make([]domain.Listing, 0, len(tt.prices))
			marketplaces := []string{"opensea", "blur", "looksrare"}
			for i, p := range tt.prices {
				listings = append(listings, domain.Listing{
					TokenID:     "42",
					Price:       p,
					Marketplace: marketplaces[i%len(marketplaces)],
				})
			}
			market := &fakeMarket{
				listings: func(ctx context.Context, contract, tokenID string) ([]domain.Listing, error) {
					return listings, nil
				},
			}
			f := newScannerFixture(market, &fakePortfolio{}, &fakeTrends{})

			found, err := f.scanner.Scan(context.Background(), "0xowner")
			require.NoError(t, err)
			require.Len(t, found, tt.wantCount)

			if tt.wantCount > 0 {
				opp := found[0]
				assert.Equal(t, domain.StrategyArbitrage, opp.Strategy)
				assert.InDelta(t, tt.wantReturn, opp.ExpectedReturn, 1e-9)
				assert.Equal(t, tt.wantRisk, opp.Risk)
				require.NotNil(t, opp.SuggestedAction)
				assert.Equal(t, domain.ActionBuy, opp.SuggestedAction.Type)
			}
		})
	}
}

func flipMarket(estimated float64) *fakeMarket {
	return &fakeMarket{
		floor: func(ctx context.Context, collection string) (float64, error) {
			return estimated, nil
		},
	}
}

func TestScanFlips(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		acquisition float64
		estimated   float64
		heldDays    int
		wantCount   int
		wantRisk    domain.RiskLevel
	}{
		{"60% margin at 10 days is medium risk", 100, 160, 10, 1, domain.RiskMedium},
		{"60% margin at 3 days is high risk", 100, 160, 3, 1, domain.RiskHigh},
		{"40% margin never fires", 100, 140, 10, 0, ""},
		{"held past the window", 100, 160, 35, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portfolio := &fakePortfolio{
				positions: func(ctx context.Context, owner string) ([]domain.Position, error) {
					return []domain.Position{{
						Owner:            owner,
						Contract:         "0xape",
						TokenID:          "42",
						AcquisitionPrice: tt.acquisition,
						AcquiredAt:       now.Add(-time.Duration(tt.heldDays) * 24 * time.Hour),
					}}, nil
				},
			}
			f := newScannerFixture(flipMarket(tt.estimated), portfolio, &fakeTrends{})

			found, err := f.scanner.Scan(context.Background(), "0xowner")
			require.NoError(t, err)
			require.Len(t, found, tt.wantCount)

			if tt.wantCount > 0 {
				opp := found[0]
				assert.Equal(t, domain.StrategyFlip, opp.Strategy)
				assert.Equal(t, tt.wantRisk, opp.Risk)
				assert.InDelta(t, tt.estimated-tt.acquisition, opp.ExpectedReturn, 1e-9)
				require.NotNil(t, opp.SuggestedAction)
				assert.Equal(t, domain.ActionSell, opp.SuggestedAction.Type)
			}
		})
	}
}

func TestScanMomentum(t *testing.T) {
	trends := &fakeTrends{
		gainers: func(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
			return []domain.CollectionTrend{
				{Collection: "alpha", FloorPrice: 10, ChangePercent: 60, Volume24h: 100},
				{Collection: "beta", FloorPrice: 5, ChangePercent: 20, Volume24h: 50},
			}, nil
		},
	}
	f := newScannerFixture(&fakeMarket{}, &fakePortfolio{}, trends)

	found, err := f.scanner.Scan(context.Background(), "0xowner")
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, domain.StrategyMomentum, found[0].Strategy)
	assert.Equal(t, "alpha", found[0].Contract)
	assert.Equal(t, domain.RiskHigh, found[0].Risk) // >50% daily move
	assert.InDelta(t, 1.0, found[0].ExpectedReturn, 1e-9)
	assert.InDelta(t, 85, found[0].Confidence, 1e-9) // 60*2 capped

	assert.Equal(t, domain.RiskMedium, found[1].Risk)
	assert.InDelta(t, 40, found[1].Confidence, 1e-9)
}

func TestScanMeanReversion(t *testing.T) {
	trends := &fakeTrends{
		losers: func(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
			return []domain.CollectionTrend{
				{Collection: "crashed", FloorPrice: 20, ChangePercent: -35},
				{Collection: "dipped", FloorPrice: 10, ChangePercent: -15},
			}, nil
		},
	}
	f := newScannerFixture(&fakeMarket{}, &fakePortfolio{}, trends)

	found, err := f.scanner.Scan(context.Background(), "0xowner")
	require.NoError(t, err)
	// Only the >20% decline qualifies.
	require.Len(t, found, 1)

	opp := found[0]
	assert.Equal(t, domain.StrategyMeanReversion, opp.Strategy)
	assert.Equal(t, "crashed", opp.Contract)
	assert.Equal(t, domain.RiskMedium, opp.Risk)
	require.NotNil(t, opp.SuggestedAction)
	assert.Equal(t, domain.ActionOffer, opp.SuggestedAction.Type)
	assert.InDelta(t, 18, opp.SuggestedAction.Parameters["price"].(float64), 1e-9)
}

func TestScan_ReplacesCacheAndPublishes(t *testing.T) {
	trends := &fakeTrends{
		gainers: func(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
			return []domain.CollectionTrend{{Collection: "alpha", FloorPrice: 10, ChangePercent: 30}}, nil
		},
	}
	f := newScannerFixture(&fakeMarket{}, &fakePortfolio{}, trends)

	_, err := f.scanner.Scan(context.Background(), "0xowner")
	require.NoError(t, err)
	assert.Len(t, f.scanner.GetOpportunities("0xowner"), 1)

	// A later scan with no signals wipes the previous set.
	trends.gainers = func(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
		return nil, nil
	}
	_, err = f.scanner.Scan(context.Background(), "0xowner")
	require.NoError(t, err)
	assert.Empty(t, f.scanner.GetOpportunities("0xowner"))

	events := f.recorder.ofType(domain.EventOpportunitiesScanned)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Payload["count"])
	assert.Equal(t, 0, events[1].Payload["count"])
}

func TestScan_StrategyOrder(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	market := &fakeMarket{
		floor: func(ctx context.Context, collection string) (float64, error) {
			return 160, nil
		},
		listings: func(ctx context.Context, contract, tokenID string) ([]domain.Listing, error) {
			if tokenID == "" { // collection-wide arbitrage fetch
				return []domain.Listing{
					{TokenID: "9", Price: 100, Marketplace: "opensea"},
					{TokenID: "9", Price: 120, Marketplace: "blur"},
				}, nil
			}
			return nil, nil
		},
	}
	portfolio := &fakePortfolio{
		positions: func(ctx context.Context, owner string) ([]domain.Position, error) {
			return []domain.Position{{
				Contract:         "0xape",
				TokenID:          "42",
				AcquisitionPrice: 100,
				AcquiredAt:       now.Add(-10 * 24 * time.Hour),
			}}, nil
		},
	}
	trends := &fakeTrends{
		gainers: func(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
			return []domain.CollectionTrend{{Collection: "gaining", FloorPrice: 10, ChangePercent: 30}}, nil
		},
		losers: func(ctx context.Context, limit int) ([]domain.CollectionTrend, error) {
			return []domain.CollectionTrend{{Collection: "losing", FloorPrice: 10, ChangePercent: -40}}, nil
		},
	}
	f := newScannerFixture(market, portfolio, trends)

	found, err := f.scanner.Scan(context.Background(), "0xowner")
	require.NoError(t, err)
	require.Len(t, found, 4)

	// Concatenation order is fixed regardless of which strategy finishes first.
	assert.Equal(t, domain.StrategyArbitrage, found[0].Strategy)
	assert.Equal(t, domain.StrategyFlip, found[1].Strategy)
	assert.Equal(t, domain.StrategyMomentum, found[2].Strategy)
	assert.Equal(t, domain.StrategyMeanReversion, found[3].Strategy)
}

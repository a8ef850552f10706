package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/infrastructure/pricestats"
)

// Heuristic constants. The wash-trading score is a documented placeholder
// until real trade-graph analysis exists.
const (
	rarityPremiumMax       = 0.25
	recentSaleWindow       = 30 * 24 * time.Hour
	sentimentWindowSize    = 7
	sentimentThreshold     = 0.10
	defaultRarityScore     = 50.0
	washTradingPlaceholder = 10.0
)

// ValuationService computes per-asset valuations and per-collection analytics
// from provider data and caches both until an explicit clear.
type ValuationService struct {
	market domain.MarketDataProvider
	store  domain.ValuationStore
	now    func() time.Time
}

func NewValuationService(market domain.MarketDataProvider, store domain.ValuationStore) *ValuationService {
	return &ValuationService{
		market: market,
		store:  store,
		now:    time.Now,
	}
}

// GetValuation returns the cached valuation for one asset, computing it on
// miss. Fails with domain.ErrAssetNotFound when no market data resolves.
func (s *ValuationService) GetValuation(ctx context.Context, contract, tokenID string) (*domain.Valuation, error) {
	key := domain.ValuationKey(contract, tokenID)
	if v, ok := s.store.GetValuation(key); ok {
		return v, nil
	}

	snapshot, stats, meta, err := s.fetchAssetData(ctx, contract, tokenID)
	if err != nil {
		return nil, err
	}

	v := s.computeValuation(snapshot, stats, meta)
	s.store.SetValuation(key, v)
	return v, nil
}

// GetCollectionAnalytics returns the cached analytics for one collection,
// computing them on miss.
func (s *ValuationService) GetCollectionAnalytics(ctx context.Context, collection string) (*domain.CollectionAnalytics, error) {
	if a, ok := s.store.GetAnalytics(collection); ok {
		return a, nil
	}

	stats, err := s.market.GetCollectionStats(ctx, collection)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			return nil, fmt.Errorf("collection %s: %w", collection, domain.ErrAssetNotFound)
		}
		return nil, err
	}

	a := &domain.CollectionAnalytics{
		Collection:       collection,
		FloorPrice:       stats.FloorPrice,
		Volume24h:        stats.Volume24h,
		Volume7d:         stats.Volume7d,
		Volume30d:        stats.Volume30d,
		FloorChange24h:   stats.FloorChange24h,
		FloorChange7d:    stats.FloorChange7d,
		FloorChange30d:   stats.FloorChange30d,
		WashTradingScore: washTradingPlaceholder,
		BlueChipScore:    CalculateBlueChipScore(stats),
		ComputedAt:       s.now(),
	}
	s.store.SetAnalytics(collection, a)
	return a, nil
}

// ClearCache drops all cached valuations and analytics.
func (s *ValuationService) ClearCache() {
	s.store.Clear()
}

// fetchAssetData issues the independent provider lookups concurrently and
// joins them. Floor price and trades decide whether the asset resolves at
// all; stats and metadata failures only degrade the result.
func (s *ValuationService) fetchAssetData(ctx context.Context, contract, tokenID string) (*domain.MarketSnapshot, *domain.CollectionStats, *domain.AssetMetadata, error) {
	var (
		wg        sync.WaitGroup
		floor     float64
		floorErr  error
		listings  []domain.Listing
		trades    []domain.Sale
		tradesErr error
		stats     *domain.CollectionStats
		meta      *domain.AssetMetadata
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		floor, floorErr = s.market.GetFloorPrice(ctx, contract)
	}()
	go func() {
		defer wg.Done()
		var err error
		listings, err = s.market.GetAssetListings(ctx, contract, tokenID)
		if err != nil {
			log.Printf("valuation: listings fetch failed for %s/%s: %v", contract, tokenID, err)
		}
	}()
	go func() {
		defer wg.Done()
		trades, tradesErr = s.market.GetAssetTrades(ctx, contract, tokenID)
	}()
	go func() {
		defer wg.Done()
		var err error
		stats, err = s.market.GetCollectionStats(ctx, contract)
		if err != nil {
			log.Printf("valuation: stats fetch failed for %s: %v", contract, err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		meta, err = s.market.GetAssetMetadata(ctx, contract, tokenID)
		if err != nil {
			log.Printf("valuation: metadata fetch failed for %s/%s: %v", contract, tokenID, err)
		}
	}()
	wg.Wait()

	// Nothing resolved at all -> the asset is unknown.
	if floorErr != nil && (tradesErr != nil || len(trades) == 0) && len(listings) == 0 {
		return nil, nil, nil, fmt.Errorf("asset %s/%s: %w", contract, tokenID, domain.ErrAssetNotFound)
	}
	if floorErr != nil {
		log.Printf("valuation: floor fetch failed for %s: %v", contract, floorErr)
		floor = 0
	}

	snapshot := &domain.MarketSnapshot{
		Contract:     contract,
		TokenID:      tokenID,
		FloorPrice:   floor,
		PriceHistory: trades,
		Listings:     listings,
	}
	if len(trades) > 0 {
		price := trades[0].Price
		at := trades[0].Timestamp
		snapshot.LastSalePrice = &price
		snapshot.LastSaleAt = &at
	}
	return snapshot, stats, meta, nil
}

func (s *ValuationService) computeValuation(snapshot *domain.MarketSnapshot, stats *domain.CollectionStats, meta *domain.AssetMetadata) *domain.Valuation {
	var rarity *float64
	var traits map[string]string
	if meta != nil {
		rarity = meta.Rarity
		traits = meta.Traits
	}

	return &domain.Valuation{
		Contract:       snapshot.Contract,
		TokenID:        snapshot.TokenID,
		EstimatedValue: estimateValue(snapshot, rarity, s.now()),
		Confidence:     calculateConfidence(snapshot, stats, rarity, traits),
		Volatility:     CalculateVolatility(salePrices(snapshot.PriceHistory)),
		LiquidityScore: CalculateLiquidityScore(snapshot, stats),
		RarityScore:    calculateRarityScore(rarity),
		Sentiment:      DetectSentiment(salePrices(snapshot.PriceHistory)),
		ComputedAt:     s.now(),
	}
}

// estimateValue starts from the floor, averages in a recent sale when one
// exists, and applies a linear rarity premium above a 0.5 signal (up to +25%
// at rarity 1.0).
func estimateValue(snapshot *domain.MarketSnapshot, rarity *float64, now time.Time) float64 {
	value := snapshot.FloorPrice

	if snapshot.LastSalePrice != nil && snapshot.LastSaleAt != nil &&
		now.Sub(*snapshot.LastSaleAt) <= recentSaleWindow {
		value = (value + *snapshot.LastSalePrice) / 2
	}

	if rarity != nil && *rarity > 0.5 {
		premium := (*rarity - 0.5) / 0.5 * rarityPremiumMax
		value *= 1 + premium
	}

	return value
}

// calculateConfidence scores how much supporting data underlies the estimate.
// Base 0.5, +0.1 per supporting signal, clamped to 1.0.
func calculateConfidence(snapshot *domain.MarketSnapshot, stats *domain.CollectionStats, rarity *float64, traits map[string]string) float64 {
	confidence := 0.5
	if snapshot.LastSalePrice != nil {
		confidence += 0.1
	}
	if len(snapshot.PriceHistory) > 0 {
		confidence += 0.1
	}
	if rarity != nil {
		confidence += 0.1
	}
	if len(traits) > 0 {
		confidence += 0.1
	}
	if stats != nil && stats.TotalSupply > 100 {
		confidence += 0.1
	}
	return pricestats.Clamp(confidence, 0, 1)
}

// CalculateVolatility is the standard deviation of sequential percentage
// returns across ordered sale prices (oldest-first). 0 with fewer than 2
// priced sales.
func CalculateVolatility(pricesNewestFirst []float64) float64 {
	if len(pricesNewestFirst) < 2 {
		return 0
	}
	// Reverse into chronological order before differencing.
	chronological := make([]float64, len(pricesNewestFirst))
	for i, p := range pricesNewestFirst {
		chronological[len(pricesNewestFirst)-1-i] = p
	}
	return pricestats.StdDev(pricestats.SequentialReturns(chronological))
}

// CalculateLiquidityScore estimates ease of sale from listing counts and
// collection activity. Clamped to [0,100].
func CalculateLiquidityScore(snapshot *domain.MarketSnapshot, stats *domain.CollectionStats) float64 {
	score := 0.0
	if len(snapshot.Listings) >= 1 {
		score += 20
	}
	if len(snapshot.Listings) >= 3 {
		score += 20
	}
	if stats != nil {
		if stats.Volume24h > 0 {
			score += 30
		}
		if stats.ListedCount > 10 {
			score += 20
		}
		if stats.HolderCount > 100 {
			score += 10
		}
	}
	return pricestats.Clamp(score, 0, 100)
}

func calculateRarityScore(rarity *float64) float64 {
	if rarity == nil {
		return defaultRarityScore
	}
	return pricestats.Clamp(*rarity*100, 0, 100)
}

// DetectSentiment compares the mean of the most recent 7 sale prices to the
// mean of the prior 7 (input is most-recent-first). Neutral unless both
// windows are full.
func DetectSentiment(pricesNewestFirst []float64) domain.Sentiment {
	if len(pricesNewestFirst) < sentimentWindowSize*2 {
		return domain.SentimentNeutral
	}

	recent := pricestats.Mean(pricesNewestFirst[:sentimentWindowSize])
	prior := pricestats.Mean(pricesNewestFirst[sentimentWindowSize : sentimentWindowSize*2])
	if prior == 0 {
		return domain.SentimentNeutral
	}

	change := (recent - prior) / prior
	switch {
	case change > sentimentThreshold:
		return domain.SentimentBullish
	case change < -sentimentThreshold:
		return domain.SentimentBearish
	default:
		return domain.SentimentNeutral
	}
}

// CalculateBlueChipScore estimates a collection's market stature from
// market-cap, holder, volume and social-proof thresholds. Clamped to [0,100].
func CalculateBlueChipScore(stats *domain.CollectionStats) float64 {
	if stats == nil {
		return 0
	}

	score := 0.0
	if stats.MarketCap > 1_000_000 {
		score += 30
	} else if stats.MarketCap > 100_000 {
		score += 20
	}

	if stats.HolderCount > 1000 {
		score += 25
	} else if stats.HolderCount > 100 {
		score += 15
	}

	if stats.Volume24h > 100_000 {
		score += 25
	} else if stats.Volume24h > 10_000 {
		score += 15
	}

	if stats.Verified {
		score += 5
	}
	if stats.HasWebsite {
		score += 5
	}
	if stats.HasTwitter {
		score += 5
	}
	if stats.HasDiscord {
		score += 5
	}

	return pricestats.Clamp(score, 0, 100)
}

func salePrices(history []domain.Sale) []float64 {
	prices := make([]float64, 0, len(history))
	for _, sale := range history {
		if sale.Price > 0 {
			prices = append(prices, sale.Price)
		}
	}
	return prices
}

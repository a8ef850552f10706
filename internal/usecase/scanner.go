package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"nfttrader-backend/internal/domain"

	"github.com/google/uuid"
)

// Strategy thresholds.
const (
	arbitrageMinSpread    = 0.05
	arbitrageHighSpread   = 0.20
	arbitrageMedSpread    = 0.10
	flipMinMargin         = 0.50
	flipMaxHoldingDays    = 30
	flipHighRiskDays      = 7
	momentumTopN          = 3
	momentumHighChange    = 50.0
	reversionTopN         = 3
	reversionMinDecline   = 20.0
	trendingCollectionCap = 5
)

// OpportunityScanner runs four independent strategies per owner and fully
// replaces the owner's opportunity cache with the concatenated results, in
// invocation order: arbitrage, flip, momentum, mean-reversion. Strategies are
// best-effort; a failing one contributes an empty slice, never an error.
type OpportunityScanner struct {
	valuation *ValuationService
	market    domain.MarketDataProvider
	portfolio domain.PortfolioProvider
	trends    domain.MarketTrendsProvider
	opps      domain.OpportunityRepository
	events    domain.Publisher
	trending  []string
	now       func() time.Time
}

func NewOpportunityScanner(
	valuation *ValuationService,
	market domain.MarketDataProvider,
	portfolio domain.PortfolioProvider,
	trends domain.MarketTrendsProvider,
	opps domain.OpportunityRepository,
	events domain.Publisher,
) *OpportunityScanner {
	return &OpportunityScanner{
		valuation: valuation,
		market:    market,
		portfolio: portfolio,
		trends:    trends,
		opps:      opps,
		events:    events,
		now:       time.Now,
	}
}

// Scan runs all strategies for one owner and swaps the cached set.
func (s *OpportunityScanner) Scan(ctx context.Context, owner string) ([]domain.TradingOpportunity, error) {
	start := s.now()

	results := make([][]domain.TradingOpportunity, 4)
	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); results[0] = s.scanArbitrage(ctx, owner) }()
	go func() { defer wg.Done(); results[1] = s.scanFlips(ctx, owner) }()
	go func() { defer wg.Done(); results[2] = s.scanMomentum(ctx, owner) }()
	go func() { defer wg.Done(); results[3] = s.scanMeanReversion(ctx, owner) }()
	wg.Wait()

	opportunities := make([]domain.TradingOpportunity, 0)
	for _, batch := range results {
		opportunities = append(opportunities, batch...)
	}

	s.opps.Replace(owner, opportunities)

	if s.events != nil {
		s.events.Publish(domain.Event{
			Type:  domain.EventOpportunitiesScanned,
			Owner: owner,
			Payload: map[string]any{
				"count":      len(opportunities),
				"durationMs": time.Since(start).Milliseconds(),
			},
			At: s.now(),
		})
	}
	log.Printf("Scan completed in %v for %s. Found %d opportunities.", time.Since(start), owner, len(opportunities))
	return opportunities, nil
}

// GetOpportunities returns the owner's cached scan result.
func (s *OpportunityScanner) GetOpportunities(owner string) []domain.TradingOpportunity {
	return s.opps.GetByOwner(owner)
}

// defaultTrendingCollections is the arbitrage universe. Placeholder: there is
// no trending detection yet, so a fixed set of liquid collections stands in,
// capped to keep cross-source listing fetches cheap.
var defaultTrendingCollections = []string{
	"boredapeyachtclub",
	"mutant-ape-yacht-club",
	"azuki",
	"pudgypenguins",
	"doodles-official",
}

// SetTrendingCollections overrides the arbitrage universe (bounded).
func (s *OpportunityScanner) SetTrendingCollections(collections []string) {
	if len(collections) > trendingCollectionCap {
		collections = collections[:trendingCollectionCap]
	}
	s.trending = collections
}

func (s *OpportunityScanner) trendingCollections() []string {
	if len(s.trending) > 0 {
		return s.trending
	}
	return defaultTrendingCollections
}

// scanArbitrage compares asks for the same token across marketplaces inside
// the trending universe. A spread above 5% becomes an opportunity.
func (s *OpportunityScanner) scanArbitrage(ctx context.Context, owner string) []domain.TradingOpportunity {
	opportunities := make([]domain.TradingOpportunity, 0)

	for _, collection := range s.trendingCollections() {
		listings, err := s.market.GetAssetListings(ctx, collection, "")
		if err != nil {
			log.Printf("scanner: listings fetch failed for %s: %v", collection, err)
			continue
		}

		byToken := make(map[string][]domain.Listing)
		tokenOrder := make([]string, 0)
		for _, l := range listings {
			if _, seen := byToken[l.TokenID]; !seen {
				tokenOrder = append(tokenOrder, l.TokenID)
			}
			byToken[l.TokenID] = append(byToken[l.TokenID], l)
		}
		sort.Strings(tokenOrder)

		for _, tokenID := range tokenOrder {
			tokenListings := byToken[tokenID]
			if len(tokenListings) < 2 {
				continue
			}

			minListing, maxListing := tokenListings[0], tokenListings[0]
			for _, l := range tokenListings[1:] {
				if l.Price < minListing.Price {
					minListing = l
				}
				if l.Price > maxListing.Price {
					maxListing = l
				}
			}
			if minListing.Price <= 0 {
				continue
			}

			spread := (maxListing.Price - minListing.Price) / minListing.Price
			if spread <= arbitrageMinSpread {
				continue
			}

			risk := domain.RiskLow
			if spread > arbitrageHighSpread {
				risk = domain.RiskHigh
			} else if spread > arbitrageMedSpread {
				risk = domain.RiskMedium
			}

			opportunities = append(opportunities, domain.TradingOpportunity{
				ID:             uuid.NewString(),
				Owner:          owner,
				Strategy:       domain.StrategyArbitrage,
				Contract:       collection,
				TokenID:        tokenID,
				ExpectedReturn: 0.9 * (maxListing.Price - minListing.Price),
				Confidence:     math.Min(spread*100, 95),
				Risk:           risk,
				TimeHorizon:    "hours",
				Reasoning: []string{
					fmt.Sprintf("listed at %.4f on %s vs %.4f on %s", minListing.Price, minListing.Marketplace, maxListing.Price, maxListing.Marketplace),
					fmt.Sprintf("cross-source spread %.1f%% exceeds %.0f%% threshold", spread*100, arbitrageMinSpread*100),
				},
				SuggestedAction: &domain.TradingAction{
					Type:        domain.ActionBuy,
					Contract:    collection,
					TokenID:     tokenID,
					Marketplace: minListing.Marketplace,
					Parameters:  map[string]any{"price": minListing.Price},
				},
				MarketData: map[string]float64{
					"minAsk":    minListing.Price,
					"maxAsk":    maxListing.Price,
					"spreadPct": spread * 100,
				},
				DiscoveredAt: s.now(),
			})
		}
	}
	return opportunities
}

// scanFlips looks for portfolio positions up more than 50% within 30 days of
// acquisition. Valuations for unrelated positions are fetched concurrently.
func (s *OpportunityScanner) scanFlips(ctx context.Context, owner string) []domain.TradingOpportunity {
	positions, err := s.portfolio.GetPositions(ctx, owner)
	if err != nil {
		log.Printf("scanner: positions fetch failed for %s: %v", owner, err)
		return nil
	}

	now := s.now()
	opportunities := make([]domain.TradingOpportunity, 0)
	var wg sync.WaitGroup
	var mu sync.Mutex

	sem := make(chan struct{}, 10) // limit concurrent valuation fetches

	for _, pos := range positions {
		wg.Add(1)
		go func(pos domain.Position) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if pos.AcquisitionPrice <= 0 {
				return
			}
			valuation, err := s.valuation.GetValuation(ctx, pos.Contract, pos.TokenID)
			if err != nil {
				log.Printf("scanner: valuation failed for %s/%s: %v", pos.Contract, pos.TokenID, err)
				return
			}

			margin := (valuation.EstimatedValue - pos.AcquisitionPrice) / pos.AcquisitionPrice
			holdingDays := now.Sub(pos.AcquiredAt).Hours() / 24
			if margin <= flipMinMargin || holdingDays >= flipMaxHoldingDays {
				return
			}

			risk := domain.RiskMedium
			if holdingDays < flipHighRiskDays {
				risk = domain.RiskHigh
			}

			opp := domain.TradingOpportunity{
				ID:             uuid.NewString(),
				Owner:          owner,
				Strategy:       domain.StrategyFlip,
				Contract:       pos.Contract,
				TokenID:        pos.TokenID,
				ExpectedReturn: valuation.EstimatedValue - pos.AcquisitionPrice,
				Confidence:     math.Min(margin*50, 90),
				Risk:           risk,
				TimeHorizon:    "days",
				Reasoning: []string{
					fmt.Sprintf("acquired at %.4f, now valued %.4f (+%.1f%%)", pos.AcquisitionPrice, valuation.EstimatedValue, margin*100),
					fmt.Sprintf("held %.0f days, inside the %d-day flip window", holdingDays, flipMaxHoldingDays),
				},
				SuggestedAction: &domain.TradingAction{
					Type:       domain.ActionSell,
					Contract:   pos.Contract,
					TokenID:    pos.TokenID,
					Parameters: map[string]any{"price": valuation.EstimatedValue},
				},
				MarketData: map[string]float64{
					"acquisitionPrice": pos.AcquisitionPrice,
					"estimatedValue":   valuation.EstimatedValue,
					"marginPct":        margin * 100,
				},
				DiscoveredAt: s.now(),
			}

			mu.Lock()
			opportunities = append(opportunities, opp)
			mu.Unlock()
		}(pos)
	}
	wg.Wait()

	// Concurrent collection scrambles order; keep output deterministic.
	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].Contract != opportunities[j].Contract {
			return opportunities[i].Contract < opportunities[j].Contract
		}
		return opportunities[i].TokenID < opportunities[j].TokenID
	})
	return opportunities
}

// scanMomentum turns the top-3 market gainers into buy candidates.
func (s *OpportunityScanner) scanMomentum(ctx context.Context, owner string) []domain.TradingOpportunity {
	gainers, err := s.trends.GetTopGainers(ctx, momentumTopN)
	if err != nil {
		log.Printf("scanner: gainers fetch failed: %v", err)
		return nil
	}
	if len(gainers) > momentumTopN {
		gainers = gainers[:momentumTopN]
	}

	opportunities := make([]domain.TradingOpportunity, 0, len(gainers))
	for _, g := range gainers {
		risk := domain.RiskMedium
		if g.ChangePercent > momentumHighChange {
			risk = domain.RiskHigh
		}

		opportunities = append(opportunities, domain.TradingOpportunity{
			ID:             uuid.NewString(),
			Owner:          owner,
			Strategy:       domain.StrategyMomentum,
			Contract:       g.Collection,
			ExpectedReturn: 0.10 * g.FloorPrice,
			Confidence:     math.Min(g.ChangePercent*2, 85),
			Risk:           risk,
			TimeHorizon:    "days",
			Reasoning: []string{
				fmt.Sprintf("%s floor up %.1f%% in 24h", g.Collection, g.ChangePercent),
				fmt.Sprintf("floor %.4f, 24h volume %.2f", g.FloorPrice, g.Volume24h),
			},
			SuggestedAction: &domain.TradingAction{
				Type:       domain.ActionBuy,
				Contract:   g.Collection,
				Parameters: map[string]any{"price": g.FloorPrice},
			},
			MarketData: map[string]float64{
				"floorPrice":    g.FloorPrice,
				"changePercent": g.ChangePercent,
			},
			DiscoveredAt: s.now(),
		})
	}
	return opportunities
}

// scanMeanReversion turns heavy 24h losers (decline beyond 20%) into
// below-floor buy candidates.
func (s *OpportunityScanner) scanMeanReversion(ctx context.Context, owner string) []domain.TradingOpportunity {
	losers, err := s.trends.GetTopLosers(ctx, reversionTopN)
	if err != nil {
		log.Printf("scanner: losers fetch failed: %v", err)
		return nil
	}
	if len(losers) > reversionTopN {
		losers = losers[:reversionTopN]
	}

	opportunities := make([]domain.TradingOpportunity, 0, len(losers))
	for _, l := range losers {
		decline := -l.ChangePercent
		if decline <= reversionMinDecline {
			continue
		}

		targetPrice := 0.9 * l.FloorPrice
		opportunities = append(opportunities, domain.TradingOpportunity{
			ID:             uuid.NewString(),
			Owner:          owner,
			Strategy:       domain.StrategyMeanReversion,
			Contract:       l.Collection,
			ExpectedReturn: 0.15 * l.FloorPrice,
			Confidence:     math.Min(decline, 80),
			Risk:           domain.RiskMedium,
			TimeHorizon:    "weeks",
			Reasoning: []string{
				fmt.Sprintf("%s floor down %.1f%% in 24h, past the %.0f%% reversion threshold", l.Collection, decline, reversionMinDecline),
				fmt.Sprintf("bid target %.4f, 10%% below current floor %.4f", targetPrice, l.FloorPrice),
			},
			SuggestedAction: &domain.TradingAction{
				Type:       domain.ActionOffer,
				Contract:   l.Collection,
				Parameters: map[string]any{"price": targetPrice},
			},
			MarketData: map[string]float64{
				"floorPrice":  l.FloorPrice,
				"declinePct":  decline,
				"targetPrice": targetPrice,
			},
			DiscoveredAt: s.now(),
		})
	}
	return opportunities
}

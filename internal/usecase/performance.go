package usecase

import (
	"math"

	"nfttrader-backend/internal/domain"
)

// PerformanceService derives trading statistics from the owner's trade log.
type PerformanceService struct {
	trades domain.TradeRepository
}

func NewPerformanceService(trades domain.TradeRepository) *PerformanceService {
	return &PerformanceService{trades: trades}
}

// GetTradingPerformance aggregates the owner's trade log. Win rate and profit
// figures only count completed trades that carry a recorded profit; trades
// without one are counted but do not move the averages.
func (s *PerformanceService) GetTradingPerformance(owner string) *domain.TradingPerformance {
	all := s.trades.ListByOwner(owner)

	perf := &domain.TradingPerformance{Owner: owner, TotalTrades: len(all)}

	var wins, withProfit int
	for _, t := range all {
		switch t.Status {
		case domain.TradeCompleted:
			perf.CompletedTrades++
		case domain.TradeFailed:
			perf.FailedTrades++
		}

		if t.Status != domain.TradeCompleted || t.Profit == nil {
			continue
		}
		p := *t.Profit
		withProfit++
		perf.TotalProfit += p
		if p > 0 {
			wins++
		}
		if perf.BestTrade == nil || p > *perf.BestTrade.Profit {
			perf.BestTrade = t
		}
		if perf.WorstTrade == nil || p < *perf.WorstTrade.Profit {
			perf.WorstTrade = t
		}
	}

	if withProfit > 0 {
		perf.WinRate = math.Round(float64(wins)/float64(withProfit)*10000) / 100
		perf.AverageProfit = math.Round(perf.TotalProfit/float64(withProfit)*10000) / 10000
	}
	perf.TotalProfit = math.Round(perf.TotalProfit*10000) / 10000
	return perf
}

// GetActiveTrades returns the owner's non-terminal trades.
func (s *PerformanceService) GetActiveTrades(owner string) []*domain.AutomatedTrade {
	return s.trades.ActiveByOwner(owner)
}

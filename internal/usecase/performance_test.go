package usecase

import (
	"testing"
	"time"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTrade(t *testing.T, repo *repository.InMemoryTradeRepository, status domain.TradeStatus, profit *float64) *domain.AutomatedTrade {
	t.Helper()
	trade := &domain.AutomatedTrade{
		ID:        "trade-" + string(status) + "-" + time.Now().String(),
		Owner:     "0xowner",
		Status:    status,
		Profit:    profit,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Append(trade))
	return trade
}

func floatPtr(v float64) *float64 { return &v }

func TestGetTradingPerformance(t *testing.T) {
	repo := repository.NewInMemoryTradeRepository()
	svc := NewPerformanceService(repo)

	seedTrade(t, repo, domain.TradeCompleted, floatPtr(10))
	seedTrade(t, repo, domain.TradeCompleted, floatPtr(-4))
	seedTrade(t, repo, domain.TradeCompleted, floatPtr(30))
	seedTrade(t, repo, domain.TradeCompleted, nil) // no recorded profit
	seedTrade(t, repo, domain.TradeFailed, nil)
	seedTrade(t, repo, domain.TradePending, nil)

	perf := svc.GetTradingPerformance("0xowner")

	assert.Equal(t, 6, perf.TotalTrades)
	assert.Equal(t, 4, perf.CompletedTrades)
	assert.Equal(t, 1, perf.FailedTrades)
	assert.InDelta(t, 66.67, perf.WinRate, 0.01) // 2 of 3 profit-bearing trades
	assert.InDelta(t, 36, perf.TotalProfit, 1e-9)
	assert.InDelta(t, 12, perf.AverageProfit, 1e-9)

	require.NotNil(t, perf.BestTrade)
	assert.InDelta(t, 30, *perf.BestTrade.Profit, 1e-9)
	require.NotNil(t, perf.WorstTrade)
	assert.InDelta(t, -4, *perf.WorstTrade.Profit, 1e-9)
}

func TestGetTradingPerformance_EmptyLog(t *testing.T) {
	svc := NewPerformanceService(repository.NewInMemoryTradeRepository())

	perf := svc.GetTradingPerformance("0xnobody")

	assert.Zero(t, perf.TotalTrades)
	assert.Zero(t, perf.WinRate)
	assert.Nil(t, perf.BestTrade)
	assert.Nil(t, perf.WorstTrade)
}

func TestGetActiveTrades(t *testing.T) {
	repo := repository.NewInMemoryTradeRepository()
	svc := NewPerformanceService(repo)

	seedTrade(t, repo, domain.TradePending, nil)
	seedTrade(t, repo, domain.TradeExecuting, nil)
	seedTrade(t, repo, domain.TradeCompleted, nil)
	seedTrade(t, repo, domain.TradeFailed, nil)
	seedTrade(t, repo, domain.TradeCancelled, nil)

	active := svc.GetActiveTrades("0xowner")
	require.Len(t, active, 2)
	for _, trade := range active {
		assert.False(t, trade.IsTerminal())
	}
}

package repository

import (
	"fmt"
	"testing"

	"nfttrader-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeRepository_AppendOrder(t *testing.T) {
	repo := NewInMemoryTradeRepository()

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Append(&domain.AutomatedTrade{
			ID:     fmt.Sprintf("trade-%d", i),
			Owner:  "0xowner",
			Status: domain.TradePending,
		}))
	}

	listed := repo.ListByOwner("0xowner")
	require.Len(t, listed, 4)
	for i, trade := range listed {
		assert.Equal(t, fmt.Sprintf("trade-%d", i), trade.ID)
	}
}

func TestTradeRepository_ActiveByOwner(t *testing.T) {
	repo := NewInMemoryTradeRepository()

	statuses := []domain.TradeStatus{
		domain.TradePending,
		domain.TradeExecuting,
		domain.TradeCompleted,
		domain.TradeFailed,
		domain.TradeCancelled,
	}
	for i, status := range statuses {
		require.NoError(t, repo.Append(&domain.AutomatedTrade{
			ID:     fmt.Sprintf("trade-%d", i),
			Owner:  "0xowner",
			Status: status,
		}))
	}

	active := repo.ActiveByOwner("0xowner")
	require.Len(t, active, 2)
	assert.Equal(t, "trade-0", active[0].ID)
	assert.Equal(t, "trade-1", active[1].ID)
}

func TestTradeRepository_UpdateTransitions(t *testing.T) {
	repo := NewInMemoryTradeRepository()
	require.NoError(t, repo.Append(&domain.AutomatedTrade{
		ID:     "trade-1",
		Owner:  "0xowner",
		Status: domain.TradePending,
	}))

	require.NoError(t, repo.Update(&domain.AutomatedTrade{
		ID:     "trade-1",
		Owner:  "0xowner",
		Status: domain.TradeCompleted,
		TxRef:  "0xdeadbeef",
	}))

	listed := repo.ListByOwner("0xowner")
	require.Len(t, listed, 1)
	assert.Equal(t, domain.TradeCompleted, listed[0].Status)
	assert.Equal(t, "0xdeadbeef", listed[0].TxRef)

	assert.Error(t, repo.Update(&domain.AutomatedTrade{ID: "ghost", Owner: "0xowner"}))
}

func TestTradeRepository_ClearOwner(t *testing.T) {
	repo := NewInMemoryTradeRepository()
	require.NoError(t, repo.Append(&domain.AutomatedTrade{ID: "a", Owner: "0xalice"}))
	require.NoError(t, repo.Append(&domain.AutomatedTrade{ID: "b", Owner: "0xbob"}))

	repo.ClearOwner("0xalice")
	assert.Empty(t, repo.ListByOwner("0xalice"))
	assert.Len(t, repo.ListByOwner("0xbob"), 1)
}

func TestTokenRepository_OwnerFilter(t *testing.T) {
	repo := NewTokenRepository()

	repo.RegisterToken("tok-alice", "0xalice", "android", 1)
	repo.RegisterToken("tok-bob", "0xbob", "ios", 2)
	repo.RegisterToken("tok-global", "", "android", 3)

	alice := repo.GetTokensForOwner("0xalice")
	assert.ElementsMatch(t, []string{"tok-alice", "tok-global"}, alice)

	repo.UnregisterToken("tok-alice")
	assert.ElementsMatch(t, []string{"tok-global"}, repo.GetTokensForOwner("0xalice"))
	assert.Equal(t, 2, repo.GetTokenCount())
}

package repository

import (
	"fmt"
	"testing"

	"nfttrader-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleRepository_CreationOrder(t *testing.T) {
	repo := NewInMemoryRuleRepository()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&domain.TradingRule{
			ID:    fmt.Sprintf("rule-%d", i),
			Owner: "0xowner",
		}))
	}

	listed := repo.ListByOwner("0xowner")
	require.Len(t, listed, 5)
	for i, rule := range listed {
		assert.Equal(t, fmt.Sprintf("rule-%d", i), rule.ID)
	}
}

func TestRuleRepository_OwnerIsolation(t *testing.T) {
	repo := NewInMemoryRuleRepository()

	require.NoError(t, repo.Create(&domain.TradingRule{ID: "a", Owner: "0xalice"}))
	require.NoError(t, repo.Create(&domain.TradingRule{ID: "b", Owner: "0xbob"}))

	assert.Len(t, repo.ListByOwner("0xalice"), 1)
	assert.Len(t, repo.ListByOwner("0xbob"), 1)

	_, err := repo.GetByID("0xalice", "b")
	assert.Error(t, err)

	repo.ClearOwner("0xalice")
	assert.Empty(t, repo.ListByOwner("0xalice"))
	assert.Len(t, repo.ListByOwner("0xbob"), 1)
}

func TestRuleRepository_ReadsAreCopies(t *testing.T) {
	repo := NewInMemoryRuleRepository()
	require.NoError(t, repo.Create(&domain.TradingRule{ID: "a", Owner: "0xowner", Name: "original"}))

	got, err := repo.GetByID("0xowner", "a")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID("0xowner", "a")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)
}

func TestRuleRepository_UpdateAndDelete(t *testing.T) {
	repo := NewInMemoryRuleRepository()
	require.NoError(t, repo.Create(&domain.TradingRule{ID: "a", Owner: "0xowner"}))

	assert.Error(t, repo.Update(&domain.TradingRule{ID: "missing", Owner: "0xowner"}))
	require.NoError(t, repo.Update(&domain.TradingRule{ID: "a", Owner: "0xowner", Name: "renamed"}))

	got, err := repo.GetByID("0xowner", "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, repo.Delete("0xowner", "a"))
	assert.Error(t, repo.Delete("0xowner", "a"))
}

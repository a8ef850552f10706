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

type ruleFixture struct {
	service     *RuleService
	trades      *repository.InMemoryTradeRepository
	marketplace *fakeMarketplace
	recorder    *eventRecorder
	clock       *time.Time
}

// newRuleFixture wires a full rule engine over in-memory storage with an
// always-true price condition source (floor 100) and a movable clock.
func newRuleFixture(t *testing.T) *ruleFixture {
	t.Helper()

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	market := &fakeMarket{
		floor: func(ctx context.Context, collection string) (float64, error) {
			return 100, nil
		},
		stats: func(ctx context.Context, collection string) (*domain.CollectionStats, error) {
			return &domain.CollectionStats{FloorPrice: 100}, nil
		},
	}
	valuation := NewValuationService(market, repository.NewInMemoryValuationStore())
	valuation.now = now

	evaluator := NewConditionEvaluator(valuation, &fakePortfolio{})
	evaluator.now = now

	recorder := &eventRecorder{}
	trades := repository.NewInMemoryTradeRepository()
	marketplace := &fakeMarketplace{}
	executor := NewActionExecutor(trades, marketplace, recorder)
	executor.now = now

	service := NewRuleService(repository.NewInMemoryRuleRepository(), evaluator, executor, recorder)
	service.now = now

	return &ruleFixture{
		service:     service,
		trades:      trades,
		marketplace: marketplace,
		recorder:    recorder,
		clock:       &clock,
	}
}

func (f *ruleFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

// evaluate fetches the stored rule and runs one cycle on it.
func (f *ruleFixture) evaluate(t *testing.T, owner, id string) *domain.AutomatedTrade {
	t.Helper()
	rule, err := f.service.GetRule(owner, id)
	require.NoError(t, err)
	trade, err := f.service.EvaluateRule(context.Background(), rule)
	require.NoError(t, err)
	return trade
}

func passingRule() domain.TradingRule {
	return domain.TradingRule{
		Type:    "floor_sweep",
		Name:    "buy under 150",
		Enabled: true,
		Conditions: []domain.TradingCondition{
			{Type: domain.ConditionPrice, Operator: domain.OpLT, Value: 150.0, Contract: "0xape", TokenID: "42"},
		},
		Actions: []domain.TradingAction{
			{Type: domain.ActionBuy, Contract: "0xape", TokenID: "42", Parameters: map[string]any{"price": 100.0}},
		},
	}
}

func TestCreateRule(t *testing.T) {
	f := newRuleFixture(t)

	in := passingRule()
	in.ExecutionCount = 99 // must be zeroed
	in.SuccessRate = 55

	created, err := f.service.CreateRule("0xowner", in)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "0xowner", created.Owner)
	assert.Zero(t, created.ExecutionCount)
	assert.Zero(t, created.SuccessRate)
	assert.Nil(t, created.LastExecuted)

	events := f.recorder.ofType(domain.EventRuleCreated)
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].Payload["ruleId"])

	listed := f.service.ListRules("0xowner")
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestUpdateRule_ShallowMerge(t *testing.T) {
	f := newRuleFixture(t)
	created, err := f.service.CreateRule("0xowner", passingRule())
	require.NoError(t, err)

	name := "renamed"
	enabled := false
	updated, err := f.service.UpdateRule("0xowner", created.ID, domain.RuleUpdate{
		Name:    &name,
		Enabled: &enabled,
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name)
	assert.False(t, updated.Enabled)
	// Untouched fields survive.
	assert.Equal(t, created.Type, updated.Type)
	assert.Equal(t, created.Conditions, updated.Conditions)

	assert.Len(t, f.recorder.ofType(domain.EventRuleUpdated), 1)
}

func TestDeleteRule(t *testing.T) {
	f := newRuleFixture(t)
	created, err := f.service.CreateRule("0xowner", passingRule())
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteRule("0xowner", created.ID))
	assert.Empty(t, f.service.ListRules("0xowner"))
	assert.Len(t, f.recorder.ofType(domain.EventRuleDeleted), 1)

	assert.Error(t, f.service.DeleteRule("0xowner", created.ID))
}

func TestEvaluateRule_Fires(t *testing.T) {
	f := newRuleFixture(t)
	created, err := f.service.CreateRule("0xowner", passingRule())
	require.NoError(t, err)

	trade := f.evaluate(t, "0xowner", created.ID)
	require.NotNil(t, trade)

	assert.Equal(t, domain.TradeCompleted, trade.Status)
	assert.Equal(t, []string{"buy:0xape:42"}, f.marketplace.calls)

	after, err := f.service.GetRule("0xowner", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.ExecutionCount)
	require.NotNil(t, after.LastExecuted)

	assert.Len(t, f.recorder.ofType(domain.EventRuleExecuted), 1)
}

func TestEvaluateRule_DisabledNeverFires(t *testing.T) {
	f := newRuleFixture(t)
	rule := passingRule()
	rule.Enabled = false
	created, err := f.service.CreateRule("0xowner", rule)
	require.NoError(t, err)

	trade := f.evaluate(t, "0xowner", created.ID)
	assert.Nil(t, trade)
	assert.Empty(t, f.marketplace.calls)
}

func TestEvaluateRule_Cooldown(t *testing.T) {
	f := newRuleFixture(t)
	rule := passingRule()
	rule.CooldownMinutes = 60
	created, err := f.service.CreateRule("0xowner", rule)
	require.NoError(t, err)

	trade := f.evaluate(t, "0xowner", created.ID)
	require.NotNil(t, trade)

	// 30 minutes later the cooldown still blocks.
	f.advance(30 * time.Minute)
	trade = f.evaluate(t, "0xowner", created.ID)
	assert.Nil(t, trade)

	// Past the hour it fires again.
	f.advance(31 * time.Minute)
	trade = f.evaluate(t, "0xowner", created.ID)
	assert.NotNil(t, trade)
}

func TestEvaluateRule_DailyQuota(t *testing.T) {
	f := newRuleFixture(t)
	rule := passingRule()
	rule.MaxExecutionsPerDay = 1
	created, err := f.service.CreateRule("0xowner", rule)
	require.NoError(t, err)

	trade := f.evaluate(t, "0xowner", created.ID)
	require.NotNil(t, trade)

	// Quota exhausted for the rest of the window.
	f.advance(2 * time.Hour)
	trade = f.evaluate(t, "0xowner", created.ID)
	assert.Nil(t, trade)

	// A day later the counter resets.
	f.advance(23 * time.Hour)
	trade = f.evaluate(t, "0xowner", created.ID)
	assert.NotNil(t, trade)
}

func TestEvaluateRule_ConditionShortCircuit(t *testing.T) {
	f := newRuleFixture(t)
	rule := passingRule()
	// First condition fails; the second would error, but must never run.
	rule.Conditions = []domain.TradingCondition{
		{Type: domain.ConditionPrice, Operator: domain.OpGT, Value: 500.0, Contract: "0xape", TokenID: "42"},
		{Type: domain.ConditionVolume, Operator: domain.OpGT, Value: 1.0},
	}
	created, err := f.service.CreateRule("0xowner", rule)
	require.NoError(t, err)

	trade := f.evaluate(t, "0xowner", created.ID)
	assert.Nil(t, trade)
	assert.Empty(t, f.marketplace.calls)
}

func TestEvaluateRule_ConditionErrorMeansNotEligible(t *testing.T) {
	f := newRuleFixture(t)
	rule := passingRule()
	rule.Conditions = []domain.TradingCondition{
		{Type: domain.ConditionVolume, Operator: domain.OpGT, Value: 1.0},
	}
	created, err := f.service.CreateRule("0xowner", rule)
	require.NoError(t, err)

	trade := f.evaluate(t, "0xowner", created.ID)
	assert.Nil(t, trade)

	after, err := f.service.GetRule("0xowner", created.ID)
	require.NoError(t, err)
	assert.Zero(t, after.ExecutionCount)
}

func TestEvaluateRule_ActionFailureDoesNotStopRest(t *testing.T) {
	f := newRuleFixture(t)
	rule := passingRule()
	rule.Actions = []domain.TradingAction{
		{Type: domain.ActionOffer, Contract: "0xape", TokenID: "42"}, // unsupported, fails
		{Type: domain.ActionBuy, Contract: "0xape", TokenID: "42", Parameters: map[string]any{"price": 100.0}},
	}
	created, err := f.service.CreateRule("0xowner", rule)
	require.NoError(t, err)

	trade := f.evaluate(t, "0xowner", created.ID)
	require.NotNil(t, trade)

	// Both actions produced trade records, in order.
	all := f.trades.ListByOwner("0xowner")
	require.Len(t, all, 2)
	assert.Equal(t, domain.TradeFailed, all[0].Status)
	assert.Equal(t, domain.TradeCompleted, all[1].Status)

	// Bookkeeping updated exactly once for the whole cycle.
	after, err := f.service.GetRule("0xowner", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.ExecutionCount)
	assert.Len(t, f.recorder.ofType(domain.EventRuleExecuted), 1)
}

func TestEvaluateOwnerRules_Order(t *testing.T) {
	f := newRuleFixture(t)

	first := passingRule()
	first.Actions[0].TokenID = "1"
	first.Conditions[0].TokenID = "1"
	_, err := f.service.CreateRule("0xowner", first)
	require.NoError(t, err)

	second := passingRule()
	second.Actions[0].TokenID = "2"
	second.Conditions[0].TokenID = "2"
	_, err = f.service.CreateRule("0xowner", second)
	require.NoError(t, err)

	trades := f.service.EvaluateOwnerRules(context.Background(), "0xowner")
	require.Len(t, trades, 2)
	assert.Equal(t, []string{"buy:0xape:1", "buy:0xape:2"}, f.marketplace.calls)
}

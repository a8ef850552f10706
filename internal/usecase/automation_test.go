package usecase

import (
	"testing"
	"time"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAutomationFixture() (*AutomationService, *eventRecorder) {
	valuation := NewValuationService(&fakeMarket{}, repository.NewInMemoryValuationStore())
	opps := repository.NewInMemoryOpportunityRepository()
	recorder := &eventRecorder{}
	scanner := NewOpportunityScanner(valuation, &fakeMarket{}, &fakePortfolio{}, &fakeTrends{}, opps, recorder)

	evaluator := NewConditionEvaluator(valuation, &fakePortfolio{})
	executor := NewActionExecutor(repository.NewInMemoryTradeRepository(), &fakeMarketplace{}, recorder)
	rules := NewRuleService(repository.NewInMemoryRuleRepository(), evaluator, executor, recorder)

	return NewAutomationService(scanner, rules), recorder
}

func TestAutomation_StartAndStop(t *testing.T) {
	svc, recorder := newAutomationFixture()

	assert.False(t, svc.IsRunning("0xowner"))

	svc.Start("0xowner", 10*time.Millisecond)
	assert.True(t, svc.IsRunning("0xowner"))

	// The first tick is immediate, then the ticker keeps scanning.
	require.Eventually(t, func() bool {
		return len(recorder.ofType(domain.EventOpportunitiesScanned)) >= 2
	}, time.Second, 5*time.Millisecond)

	svc.Stop("0xowner")
	assert.False(t, svc.IsRunning("0xowner"))
}

func TestAutomation_StopIsIdempotent(t *testing.T) {
	svc, _ := newAutomationFixture()

	svc.Stop("0xowner") // never started
	assert.False(t, svc.IsRunning("0xowner"))

	svc.Start("0xowner", time.Minute)
	svc.Stop("0xowner")
	svc.Stop("0xowner")
	assert.False(t, svc.IsRunning("0xowner"))
}

func TestAutomation_StartReplacesRunningLoop(t *testing.T) {
	svc, _ := newAutomationFixture()

	svc.Start("0xowner", time.Minute)
	svc.Start("0xowner", time.Minute)
	assert.True(t, svc.IsRunning("0xowner"))

	// One stop clears the single remaining loop.
	svc.Stop("0xowner")
	assert.False(t, svc.IsRunning("0xowner"))
}

func TestAutomation_OwnersAreIndependent(t *testing.T) {
	svc, _ := newAutomationFixture()

	svc.Start("0xalice", time.Minute)
	svc.Start("0xbob", time.Minute)

	svc.Stop("0xalice")
	assert.False(t, svc.IsRunning("0xalice"))
	assert.True(t, svc.IsRunning("0xbob"))

	svc.StopAll()
	assert.False(t, svc.IsRunning("0xbob"))
}

func TestAutomation_NonPositiveIntervalDefaults(t *testing.T) {
	svc, _ := newAutomationFixture()

	svc.Start("0xowner", 0)
	assert.True(t, svc.IsRunning("0xowner"))
	svc.Stop("0xowner")
}

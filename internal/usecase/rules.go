package usecase

import (
	"context"
	"log"
	"time"

	"nfttrader-backend/internal/domain"

	"github.com/google/uuid"
)

const quotaWindow = 24 * time.Hour

// RuleService owns per-owner trading rules: CRUD with lifecycle events plus
// the eligibility/execution cycle. Rules run in creation order; the priority
// field is stored and surfaced but does not reorder evaluation.
type RuleService struct {
	rules     domain.RuleRepository
	evaluator *ConditionEvaluator
	executor  *ActionExecutor
	events    domain.Publisher
	now       func() time.Time
}

func NewRuleService(rules domain.RuleRepository, evaluator *ConditionEvaluator, executor *ActionExecutor, events domain.Publisher) *RuleService {
	return &RuleService{
		rules:     rules,
		evaluator: evaluator,
		executor:  executor,
		events:    events,
		now:       time.Now,
	}
}

// CreateRule assigns an id and zeroed statistics, stores the rule and emits
// rule_created.
func (s *RuleService) CreateRule(owner string, rule domain.TradingRule) (*domain.TradingRule, error) {
	now := s.now()
	rule.ID = uuid.NewString()
	rule.Owner = owner
	rule.LastExecuted = nil
	rule.ExecutionCount = 0
	rule.SuccessRate = 0
	rule.TotalProfit = 0
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := s.rules.Create(&rule); err != nil {
		return nil, err
	}

	s.publish(domain.EventRuleCreated, owner, map[string]any{"ruleId": rule.ID, "type": rule.Type})
	return &rule, nil
}

// UpdateRule applies a shallow field merge and emits rule_updated.
func (s *RuleService) UpdateRule(owner, id string, patch domain.RuleUpdate) (*domain.TradingRule, error) {
	rule, err := s.rules.GetByID(owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		rule.Type = *patch.Type
	}
	if patch.Name != nil {
		rule.Name = *patch.Name
	}
	if patch.Conditions != nil {
		rule.Conditions = *patch.Conditions
	}
	if patch.Actions != nil {
		rule.Actions = *patch.Actions
	}
	if patch.Enabled != nil {
		rule.Enabled = *patch.Enabled
	}
	if patch.Priority != nil {
		rule.Priority = *patch.Priority
	}
	if patch.CooldownMinutes != nil {
		rule.CooldownMinutes = *patch.CooldownMinutes
	}
	if patch.MaxExecutionsPerDay != nil {
		rule.MaxExecutionsPerDay = *patch.MaxExecutionsPerDay
	}
	rule.UpdatedAt = s.now()

	if err := s.rules.Update(rule); err != nil {
		return nil, err
	}

	s.publish(domain.EventRuleUpdated, owner, map[string]any{"ruleId": rule.ID})
	return rule, nil
}

// DeleteRule removes the rule and emits rule_deleted.
func (s *RuleService) DeleteRule(owner, id string) error {
	if err := s.rules.Delete(owner, id); err != nil {
		return err
	}
	s.publish(domain.EventRuleDeleted, owner, map[string]any{"ruleId": id})
	return nil
}

// GetRule returns one rule by id.
func (s *RuleService) GetRule(owner, id string) (*domain.TradingRule, error) {
	return s.rules.GetByID(owner, id)
}

// ListRules returns the owner's rules in creation order.
func (s *RuleService) ListRules(owner string) []*domain.TradingRule {
	return s.rules.ListByOwner(owner)
}

// ClearOwner drops all of an owner's rules.
func (s *RuleService) ClearOwner(owner string) {
	s.rules.ClearOwner(owner)
}

// EvaluateRule runs one eligibility/execution cycle for a rule:
// Idle -> Eligible requires enabled, cooldown elapsed, daily quota left and
// every condition true (AND, short-circuit). On eligibility every action runs
// in declared order; one action's failure is logged but does not stop the
// rest. Bookkeeping (lastExecuted, executionCount) updates exactly once per
// cycle. Returns the first resulting trade, or nil when the rule did not fire.
func (s *RuleService) EvaluateRule(ctx context.Context, rule *domain.TradingRule) (*domain.AutomatedTrade, error) {
	if rule == nil || !rule.Enabled {
		return nil, nil
	}

	now := s.now()

	// Lazy rolling-day reset: a counter older than the quota window starts over.
	if rule.LastExecuted != nil && now.Sub(*rule.LastExecuted) >= quotaWindow {
		rule.ExecutionCount = 0
	}

	if rule.LastExecuted != nil {
		cooldown := time.Duration(rule.CooldownMinutes) * time.Minute
		if now.Sub(*rule.LastExecuted) < cooldown {
			return nil, nil
		}
	}

	if rule.MaxExecutionsPerDay > 0 && rule.ExecutionCount >= rule.MaxExecutionsPerDay {
		return nil, nil
	}

	for _, cond := range rule.Conditions {
		ok, err := s.evaluator.Evaluate(ctx, rule.Owner, cond)
		if err != nil {
			// Evaluation trouble means "not eligible", never a crashed cycle.
			log.Printf("rule %s: condition %s evaluation failed: %v", rule.ID, cond.Type, err)
			return nil, nil
		}
		if !ok {
			return nil, nil
		}
	}

	var firstTrade *domain.AutomatedTrade
	for _, action := range rule.Actions {
		trade, err := s.executor.Execute(ctx, rule.Owner, rule.ID, action)
		if err != nil {
			log.Printf("rule %s: action %s failed: %v", rule.ID, action.Type, err)
		}
		if firstTrade == nil && trade != nil {
			firstTrade = trade
		}
	}

	executedAt := now
	rule.LastExecuted = &executedAt
	rule.ExecutionCount++
	rule.UpdatedAt = now
	if err := s.rules.Update(rule); err != nil {
		log.Printf("rule %s: bookkeeping update failed: %v", rule.ID, err)
	}

	s.publish(domain.EventRuleExecuted, rule.Owner, map[string]any{
		"ruleId":         rule.ID,
		"executionCount": rule.ExecutionCount,
	})
	return firstTrade, nil
}

// EvaluateOwnerRules runs one cycle over every enabled rule in enumeration
// order and returns the trades that fired.
func (s *RuleService) EvaluateOwnerRules(ctx context.Context, owner string) []*domain.AutomatedTrade {
	trades := make([]*domain.AutomatedTrade, 0)
	for _, rule := range s.rules.ListByOwner(owner) {
		if !rule.Enabled {
			continue
		}
		trade, err := s.EvaluateRule(ctx, rule)
		if err != nil {
			log.Printf("rule %s: cycle failed: %v", rule.ID, err)
			continue
		}
		if trade != nil {
			trades = append(trades, trade)
		}
	}
	return trades
}

func (s *RuleService) publish(t domain.EventType, owner string, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.Event{Type: t, Owner: owner, Payload: payload, At: s.now()})
}

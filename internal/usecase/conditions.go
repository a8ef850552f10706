package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nfttrader-backend/internal/domain"
)

// ConditionEvaluator resolves one typed condition against live data. Errors
// are reported to the caller but the policy everywhere is permissive: an
// unsupported or malformed condition evaluates false instead of raising.
type ConditionEvaluator struct {
	valuation *ValuationService
	portfolio domain.PortfolioProvider
	now       func() time.Time
}

func NewConditionEvaluator(valuation *ValuationService, portfolio domain.PortfolioProvider) *ConditionEvaluator {
	return &ConditionEvaluator{
		valuation: valuation,
		portfolio: portfolio,
		now:       time.Now,
	}
}

// Evaluate dispatches on the condition type and applies the operator to the
// fetched value. volume/rarity/market_sentiment have no live source yet and
// return false with domain.ErrUnsupportedCondition so callers can tell the
// default apart from a real miss.
func (e *ConditionEvaluator) Evaluate(ctx context.Context, owner string, c domain.TradingCondition) (bool, error) {
	switch c.Type {
	case domain.ConditionPrice:
		v, err := e.valuation.GetValuation(ctx, c.Contract, c.TokenID)
		if err != nil {
			return false, err
		}
		return compare(v.EstimatedValue, c.Operator, c.Value)

	case domain.ConditionFloorPrice:
		a, err := e.valuation.GetCollectionAnalytics(ctx, c.Contract)
		if err != nil {
			return false, err
		}
		return compare(a.FloorPrice, c.Operator, c.Value)

	case domain.ConditionPortfolio:
		summary, err := e.portfolio.GetPortfolioSummary(ctx, owner)
		if err != nil {
			return false, err
		}
		return compare(summary.TotalValue, c.Operator, c.Value)

	case domain.ConditionTime:
		return compare(float64(e.now().Hour()), c.Operator, c.Value)

	case domain.ConditionVolume, domain.ConditionRarity, domain.ConditionMarketSentiment:
		return false, fmt.Errorf("%s: %w", c.Type, domain.ErrUnsupportedCondition)

	default:
		return false, fmt.Errorf("%s: %w", c.Type, domain.ErrUnsupportedCondition)
	}
}

// compare applies an operator to the live value. gt/lt/eq/gte/lte are plain
// numeric comparisons, between is inclusive on a 2-element range, contains is
// membership of the live value in the condition's list.
func compare(actual float64, op domain.Operator, value any) (bool, error) {
	switch op {
	case domain.OpGT, domain.OpLT, domain.OpEQ, domain.OpGTE, domain.OpLTE:
		target, ok := toFloat(value)
		if !ok {
			return false, fmt.Errorf("operator %s needs a numeric value: %w", op, domain.ErrMalformedCondition)
		}
		switch op {
		case domain.OpGT:
			return actual > target, nil
		case domain.OpLT:
			return actual < target, nil
		case domain.OpEQ:
			return actual == target, nil
		case domain.OpGTE:
			return actual >= target, nil
		default:
			return actual <= target, nil
		}

	case domain.OpBetween:
		bounds, ok := toFloatSlice(value)
		if !ok || len(bounds) != 2 {
			return false, fmt.Errorf("operator between needs a 2-element range: %w", domain.ErrMalformedCondition)
		}
		lo, hi := bounds[0], bounds[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return actual >= lo && actual <= hi, nil

	case domain.OpContains:
		members, ok := toFloatSlice(value)
		if !ok {
			return false, fmt.Errorf("operator contains needs a list: %w", domain.ErrMalformedCondition)
		}
		for _, m := range members {
			if m == actual {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("operator %s: %w", op, domain.ErrMalformedCondition)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toFloatSlice(v any) ([]float64, bool) {
	switch list := v.(type) {
	case []float64:
		return list, true
	case []any:
		out := make([]float64, 0, len(list))
		for _, item := range list {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	default:
		return nil, false
	}
}

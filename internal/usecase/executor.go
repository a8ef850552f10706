package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"nfttrader-backend/internal/domain"

	"github.com/google/uuid"
)

// ActionExecutor turns a rule action into an AutomatedTrade record and
// dispatches it. buy/sell/list go to the marketplace executor; rebalance and
// alert only raise events and complete immediately. Every dispatch appends a
// pending record first, so the trade log always shows the attempt.
type ActionExecutor struct {
	trades      domain.TradeRepository
	marketplace domain.MarketplaceExecutor
	events      domain.Publisher
	now         func() time.Time
}

func NewActionExecutor(trades domain.TradeRepository, marketplace domain.MarketplaceExecutor, events domain.Publisher) *ActionExecutor {
	return &ActionExecutor{
		trades:      trades,
		marketplace: marketplace,
		events:      events,
		now:         time.Now,
	}
}

// Execute dispatches one action. The returned trade is always non-nil once
// the record was appended; err is non-nil when the dispatch itself failed, in
// which case the trade is already marked failed with the captured message.
func (e *ActionExecutor) Execute(ctx context.Context, owner, ruleID string, action domain.TradingAction) (*domain.AutomatedTrade, error) {
	trade := &domain.AutomatedTrade{
		ID:          uuid.NewString(),
		Owner:       owner,
		RuleID:      ruleID,
		ActionType:  action.Type,
		Contract:    action.Contract,
		TokenID:     action.TokenID,
		Price:       paramFloat(action.Parameters, "price"),
		Marketplace: action.Marketplace,
		Status:      domain.TradePending,
		CreatedAt:   e.now(),
	}
	if err := e.trades.Append(trade); err != nil {
		return nil, fmt.Errorf("append trade record: %w", err)
	}

	req := domain.ExecutionRequest{
		Owner:       owner,
		Contract:    action.Contract,
		TokenID:     action.TokenID,
		Price:       trade.Price,
		Marketplace: action.Marketplace,
		SlippageBps: action.SlippageBps,
	}

	var txRef string
	var err error
	switch action.Type {
	case domain.ActionBuy:
		txRef, err = e.marketplace.SubmitBuy(ctx, req)
	case domain.ActionSell:
		txRef, err = e.marketplace.SubmitSell(ctx, req)
	case domain.ActionList:
		txRef, err = e.marketplace.SubmitListing(ctx, req)
	case domain.ActionRebalance:
		e.publish(domain.EventRebalanceRequested, owner, map[string]any{
			"ruleId":     ruleID,
			"parameters": action.Parameters,
		})
	case domain.ActionAlert:
		e.publish(domain.EventAlertTriggered, owner, map[string]any{
			"ruleId":     ruleID,
			"contract":   action.Contract,
			"tokenId":    action.TokenID,
			"parameters": action.Parameters,
		})
	default:
		// unlist/offer/cancel_offer have no execution backend yet; record the
		// gap on the trade instead of completing silently.
		err = fmt.Errorf("action type %s not supported by marketplace executor", action.Type)
	}

	executedAt := e.now()
	trade.ExecutedAt = &executedAt
	if err != nil {
		trade.Status = domain.TradeFailed
		trade.Error = err.Error()
	} else {
		trade.Status = domain.TradeCompleted
		trade.TxRef = txRef
	}
	if updateErr := e.trades.Update(trade); updateErr != nil {
		log.Printf("executor: trade %s update failed: %v", trade.ID, updateErr)
	}

	e.publish(domain.EventTradeExecuted, owner, map[string]any{
		"tradeId":    trade.ID,
		"ruleId":     ruleID,
		"actionType": string(action.Type),
		"status":     string(trade.Status),
	})

	if err != nil {
		return trade, err
	}
	return trade, nil
}

func (e *ActionExecutor) publish(t domain.EventType, owner string, payload map[string]any) {
	if e.events == nil {
		return
	}
	e.events.Publish(domain.Event{Type: t, Owner: owner, Payload: payload, At: e.now()})
}

func paramFloat(params map[string]any, key string) float64 {
	if params == nil {
		return 0
	}
	if v, ok := params[key]; ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return 0
}

package usecase

import (
	"fmt"
	"log"
	"sync"
	"time"

	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/infrastructure/fcm"
	"nfttrader-backend/internal/repository"
)

const notifyCooldown = 5 * time.Minute

// AlertNotifier pushes FCM notifications for alert_triggered events and for
// completed trades. A per-key cooldown keeps a chatty rule from spamming the
// same device every cycle.
type AlertNotifier struct {
	fcmClient *fcm.Client
	tokens    *repository.TokenRepository

	mu       sync.Mutex
	notified map[string]time.Time
	now      func() time.Time
}

func NewAlertNotifier(fcmClient *fcm.Client, tokens *repository.TokenRepository) *AlertNotifier {
	return &AlertNotifier{
		fcmClient: fcmClient,
		tokens:    tokens,
		notified:  make(map[string]time.Time),
		now:       time.Now,
	}
}

// Handle is the event bus entry point.
func (n *AlertNotifier) Handle(e domain.Event) {
	if n.fcmClient == nil || !n.fcmClient.IsEnabled() {
		return
	}

	switch e.Type {
	case domain.EventAlertTriggered:
		n.notifyAlert(e)
	case domain.EventTradeExecuted:
		n.notifyTrade(e)
	}
}

func (n *AlertNotifier) notifyAlert(e domain.Event) {
	contract, _ := e.Payload["contract"].(string)
	tokenID, _ := e.Payload["tokenId"].(string)
	ruleID, _ := e.Payload["ruleId"].(string)

	key := "alert:" + ruleID + ":" + contract + ":" + tokenID
	if !n.shouldNotify(key) {
		return
	}

	title := "🔔 Trading alert"
	body := fmt.Sprintf("Rule fired for %s #%s", contract, tokenID)
	if contract == "" {
		body = "Trading rule alert fired"
	}

	n.send(e.Owner, key, title, body, map[string]string{
		"type":     "alert",
		"ruleId":   ruleID,
		"contract": contract,
		"tokenId":  tokenID,
	})
}

func (n *AlertNotifier) notifyTrade(e domain.Event) {
	status, _ := e.Payload["status"].(string)
	if status != string(domain.TradeCompleted) {
		return
	}
	tradeID, _ := e.Payload["tradeId"].(string)
	actionType, _ := e.Payload["actionType"].(string)

	key := "trade:" + tradeID
	if !n.shouldNotify(key) {
		return
	}

	title := "✅ Trade executed"
	body := fmt.Sprintf("Automated %s completed", actionType)

	n.send(e.Owner, key, title, body, map[string]string{
		"type":       "trade",
		"tradeId":    tradeID,
		"actionType": actionType,
	})
}

func (n *AlertNotifier) send(owner, key, title, body string, data map[string]string) {
	tokens := n.tokens.GetTokensForOwner(owner)
	if len(tokens) == 0 {
		return
	}

	if err := n.fcmClient.SendMulticast(tokens, title, body, data); err != nil {
		log.Printf("notifier: push for %s failed: %v", key, err)
		return
	}
	log.Printf("notifier: pushed %s to %d devices", key, len(tokens))

	n.mu.Lock()
	n.notified[key] = n.now()
	n.cleanupLocked()
	n.mu.Unlock()
}

func (n *AlertNotifier) shouldNotify(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	last, ok := n.notified[key]
	return !ok || n.now().Sub(last) >= notifyCooldown
}

// cleanupLocked drops stale cooldown entries. Caller holds mu.
func (n *AlertNotifier) cleanupLocked() {
	now := n.now()
	for key, ts := range n.notified {
		if now.Sub(ts) > notifyCooldown*2 {
			delete(n.notified, key)
		}
	}
}

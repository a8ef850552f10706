package domain

import "time"

// EventType names a lifecycle notification.
type EventType string

const (
	EventRuleCreated          EventType = "rule_created"
	EventRuleUpdated          EventType = "rule_updated"
	EventRuleDeleted          EventType = "rule_deleted"
	EventRuleExecuted         EventType = "rule_executed"
	EventTradeExecuted        EventType = "trade_executed"
	EventOpportunitiesScanned EventType = "opportunities_scanned"
	EventRebalanceRequested   EventType = "rebalance_requested"
	EventAlertTriggered       EventType = "alert_triggered"
)

// Event is a lifecycle notification delivered to subscribed observers.
type Event struct {
	Type    EventType      `json:"type"`
	Owner   string         `json:"owner"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// Publisher is the outbound side of the event bus. Usecases publish; the host
// registers observers on the concrete bus.
type Publisher interface {
	Publish(e Event)
}

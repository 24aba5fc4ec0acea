package amqp

import (
	"encoding/json"
	"time"
)

// EventType names a subscription lifecycle event.
type EventType string

const (
	EventSubscriptionCreated EventType = "subscription.created"
	EventSubscriptionDeleted EventType = "subscription.deleted"
)

// SubscriptionEvent is the message published when a subscription is created or deleted.
// Deleted events only carry the ID.
type SubscriptionEvent struct {
	Type         EventType `json:"type"`
	ID           int64     `json:"id"`
	Name         string    `json:"name,omitempty"`
	AmountCents  int64     `json:"amount_cents,omitempty"`
	BillingCycle string    `json:"billing_cycle,omitempty"`
	Category     string    `json:"category,omitempty"`
	RenewalDate  string    `json:"renewal_date,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *SubscriptionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SubscriptionEventFromJSON creates a message from JSON bytes
func SubscriptionEventFromJSON(data []byte) (*SubscriptionEvent, error) {
	var msg SubscriptionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

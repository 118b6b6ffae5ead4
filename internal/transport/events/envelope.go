package events

import (
	"encoding/json"
	"time"
)

const (
	producerName = "luffy-api"
	eventVersion = 1
)

const (
	OrderCreated        = "order.created"
	OrderStatusChanged  = "order.status_changed"
	RechargeCreated     = "recharge.created"
	RechargeApproved    = "recharge.approved"
	RechargeRejected    = "recharge.rejected"
	AffiliateApproved   = "affiliate.approved"
	CommissionPaid      = "commission.paid"
	OrderItemsDelivered = "order.items_delivered"
)

// Envelope общий конверт доменных событий. Payload содержит данные конкретного события.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

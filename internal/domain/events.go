package domain

import "time"

const (
	EventOrderCreated  = "order.created"
	EventStatusChanged = "order.status_changed"
	EventOrderDeleted  = "order.deleted"
)

// OrderEvent is the payload published to the notifications fanout on
// every order mutation.
type OrderEvent struct {
	EventType string      `json:"event_type"`
	OrderID   string      `json:"order_id"`
	TableID   string      `json:"table_id"`
	OldStatus OrderStatus `json:"old_status,omitempty"`
	NewStatus OrderStatus `json:"new_status,omitempty"`
	ChangedBy string      `json:"changed_by"`
	Timestamp time.Time   `json:"timestamp"`
}

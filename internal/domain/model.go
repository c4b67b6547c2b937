package domain

import "time"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// PendingOrder is a submitted cart waiting out its grace period. It is
// destroyed by cancel, or turned into a persisted order by confirm.
type PendingOrder struct {
	TableID   string
	Items     []OrderItem
	Location  *LatLng
	ClientIP  string
	CreatedAt time.Time
}

// Order is the client-side aggregate: one per table, grown by merging
// later commits for the same table.
type Order struct {
	TableID string      `json:"table_id"`
	Items   []OrderItem `json:"items"`
	Total   float64     `json:"total"`
	Status  OrderStatus `json:"status"`
}

// StaffOrder is the server-persisted order as staff observe it.
type StaffOrder struct {
	ID        string      `json:"id"`
	TableID   string      `json:"table_id"`
	Items     []OrderItem `json:"items"`
	ClientIP  string      `json:"client_ip,omitempty"`
	Location  *LatLng     `json:"location,omitempty"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// CommitResult is what the gateway returns for a successful create.
type CommitResult struct {
	ID      string      `json:"id"`
	TableID string      `json:"table_id"`
	Items   []OrderItem `json:"items"`
	Total   float64     `json:"total"`
	Status  OrderStatus `json:"status"`
}

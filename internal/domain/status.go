package domain

import "fmt"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusReceived  OrderStatus = "received"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServing   OrderStatus = "serving"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusReceived, StatusPreparing,
	StatusReady, StatusServing, StatusCompleted, StatusCancelled,
}

// next maps each status to its single forward successor.
var next = map[OrderStatus]OrderStatus{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusReceived,
	StatusReceived:  StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusServing,
	StatusServing:   StatusCompleted,
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s OrderStatus) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// CanTransition reports whether staff may move an order from one status to
// another. Forward moves advance one stage at a time; cancellation is
// reachable from any non-terminal state; re-applying the current status is
// an allowed no-op.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return next[from] == to
}

func ParseStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

package gateway

import (
	"context"

	"table-orders/internal/domain"
)

// OrderGateway is the order backend as the engine consumes it. The engine
// never persists anything itself; every durable effect goes through here.
type OrderGateway interface {
	Create(ctx context.Context, order domain.PendingOrder) (domain.CommitResult, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.StaffOrder, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	Delete(ctx context.Context, orderID string) error
}

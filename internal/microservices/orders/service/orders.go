package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"table-orders/internal/common/logger"
	"table-orders/internal/connections/rabbitmq"
	"table-orders/internal/domain"
	"table-orders/internal/gateway"
	"table-orders/internal/microservices/orders/repository"
)

type OrdersServiceInterface interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error)
	ListByStatus(ctx context.Context, status string) ([]domain.StaffOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteOrder(ctx context.Context, id string) error
}

type OrdersService struct {
	repo repository.OrdersRepositoryInterface
	rmq  *rabbitmq.Client
	lg   *logger.Logger
}

func NewOrdersService(repo repository.OrdersRepositoryInterface, rmq *rabbitmq.Client, lg *logger.Logger) OrdersServiceInterface {
	return &OrdersService{repo: repo, rmq: rmq, lg: lg}
}

func (s *OrdersService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error) {
	if req.TableID == "" {
		return domain.CreateOrderResponse{}, &gateway.ValidationError{Field: "table_id", Reason: "table id is required"}
	}
	if req.Location == nil {
		return domain.CreateOrderResponse{}, &gateway.ValidationError{Field: "location", Reason: "location is required"}
	}
	if len(req.Items) == 0 {
		return domain.CreateOrderResponse{}, &gateway.ValidationError{Field: "items", Reason: "at least one item is required"}
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	var total float64
	for _, in := range req.Items {
		if in.Name == "" {
			return domain.CreateOrderResponse{}, &gateway.ValidationError{Field: "items", Reason: "item name is required"}
		}
		if in.Quantity <= 0 {
			return domain.CreateOrderResponse{}, &gateway.ValidationError{Field: "items", Reason: fmt.Sprintf("invalid quantity for item %s", in.Name)}
		}
		if in.Price < 0 {
			return domain.CreateOrderResponse{}, &gateway.ValidationError{Field: "items", Reason: fmt.Sprintf("invalid price for item %s", in.Name)}
		}
		sub := in.Price * float64(in.Quantity)
		items = append(items, domain.OrderItem{Name: in.Name, Price: in.Price, Quantity: in.Quantity, Subtotal: sub})
		total += sub
	}

	order := domain.StaffOrder{
		ID:        uuid.NewString(),
		TableID:   req.TableID,
		Items:     items,
		ClientIP:  req.ClientIP,
		Location:  req.Location,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return domain.CreateOrderResponse{}, fmt.Errorf("save order: %w", err)
	}

	s.publish(ctx, domain.OrderEvent{
		EventType: domain.EventOrderCreated,
		OrderID:   order.ID,
		TableID:   order.TableID,
		NewStatus: order.Status,
		ChangedBy: "order-service",
		Timestamp: time.Now().UTC(),
	})

	s.lg.Info("order_created", map[string]any{
		"order_id": order.ID, "table_id": order.TableID, "total": total,
	})
	return domain.CreateOrderResponse{
		ID:          order.ID,
		TableID:     order.TableID,
		Items:       items,
		Status:      order.Status,
		TotalAmount: total,
	}, nil
}

func (s *OrdersService) ListByStatus(ctx context.Context, status string) ([]domain.StaffOrder, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return nil, &gateway.ValidationError{Field: "status", Reason: err.Error()}
	}
	return s.repo.ListByStatus(ctx, st)
}

func (s *OrdersService) UpdateStatus(ctx context.Context, id, status string) error {
	to, err := domain.ParseStatus(status)
	if err != nil {
		return &gateway.ValidationError{Field: "status", Reason: err.Error()}
	}

	from, err := s.repo.UpdateStatusTx(ctx, id, to, "staff")
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	s.publish(ctx, domain.OrderEvent{
		EventType: domain.EventStatusChanged,
		OrderID:   id,
		OldStatus: from,
		NewStatus: to,
		ChangedBy: "staff",
		Timestamp: time.Now().UTC(),
	})
	s.lg.Info("status_changed", map[string]any{"order_id": id, "from": from, "to": to})
	return nil
}

func (s *OrdersService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, domain.OrderEvent{
		EventType: domain.EventOrderDeleted,
		OrderID:   id,
		ChangedBy: "staff",
		Timestamp: time.Now().UTC(),
	})
	s.lg.Info("order_deleted", map[string]any{"order_id": id})
	return nil
}

// publish pushes an event to the notifications fanout. The database is the
// source of truth; a lost notification is logged, not surfaced.
func (s *OrdersService) publish(ctx context.Context, ev domain.OrderEvent) {
	if s.rmq == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		s.lg.Error("event_marshal_failed", err, map[string]any{"event": ev.EventType})
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.rmq.Publish(pctx, rabbitmq.NotificationsExchange, "", body); err != nil {
		s.lg.Error("event_publish_failed", err, map[string]any{
			"event": ev.EventType, "order_id": ev.OrderID,
		})
	}
}

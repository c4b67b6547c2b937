package service

import (
	"context"
	"encoding/json"

	"table-orders/internal/common/logger"
	"table-orders/internal/connections/rabbitmq"
	"table-orders/internal/domain"
)

// Subscriber tails the notifications queue and logs every order event.
type Subscriber struct {
	rmq *rabbitmq.Client
	lg  *logger.Logger
}

func NewSubscriber(rmq *rabbitmq.Client, lg *logger.Logger) *Subscriber {
	return &Subscriber{rmq: rmq, lg: lg}
}

func (s *Subscriber) Listen(ctx context.Context) error {
	deliveries, err := s.rmq.Consume(rabbitmq.NotificationsQueue, "notification-subscriber", 10)
	if err != nil {
		return err
	}
	s.lg.Info("subscribed", map[string]any{"queue": rabbitmq.NotificationsQueue})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var ev domain.OrderEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				s.lg.Error("decode_event_failed", err, map[string]any{"body": string(d.Body)})
				_ = d.Nack(false, false)
				continue
			}
			s.lg.Info("order_event", map[string]any{
				"event_type": ev.EventType,
				"order_id":   ev.OrderID,
				"table_id":   ev.TableID,
				"old_status": ev.OldStatus,
				"new_status": ev.NewStatus,
				"changed_by": ev.ChangedBy,
			})
			_ = d.Ack(false)
		}
	}
}

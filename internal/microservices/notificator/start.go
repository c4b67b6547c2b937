package notificator

import (
	"context"

	"table-orders/internal/common/logger"
	"table-orders/internal/connections/rabbitmq"
	"table-orders/internal/microservices/notificator/service"
)

// Run consumes order lifecycle events until the context is cancelled.
func Run(ctx context.Context, rmq *rabbitmq.Client) error {
	lg := logger.New("notification-subscriber")
	if err := rmq.DeclareAll(); err != nil {
		return err
	}
	return service.NewSubscriber(rmq, lg).Listen(ctx)
}
